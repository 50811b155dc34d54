package models

import "time"

// Live feed operations
const (
	OperacaoCriado     = "criado"
	OperacaoAtualizado = "atualizado"
	OperacaoRemovido   = "removido"
)

// ChangeEvent is pushed to live feed subscribers after a write
type ChangeEvent struct {
	Colecao  string    `json:"colecao"`
	Operacao string    `json:"operacao"`
	ID       string    `json:"id"`
	Data     time.Time `json:"data"`
}
