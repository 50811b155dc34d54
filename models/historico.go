package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Event types of the historico log
const (
	EventoEntrega             = "entrega"
	EventoAtualizacao         = "atualizacao"
	EventoRetirada            = "retirada"
	EventoFalta               = "falta"
	EventoFaltaResolvida      = "falta_resolvida"
	EventoAlteracao           = "alteracao"
	EventoAlteracaoResolvida  = "alteracao_resolvida"
	EventoSolicitacaoEntregue = "solicitacao_entregue"
)

// Equipment unit statuses
const (
	StatusOK       = "ok"
	StatusAvaria   = "avaria"
	StatusQuebrado = "quebrado"
	StatusAusente  = "ausente"
)

// Historico holds the structure for the append-only historico collection
type Historico struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details HistoricoDetails   `json:"historico" bson:"historico"`
}

// HistoricoDetails is a single logged event
type HistoricoDetails struct {
	Tipo      string             `json:"tipo" bson:"tipo"`
	Posto     int                `json:"posto,omitempty" bson:"posto,omitempty"`
	Categoria string             `json:"categoria,omitempty" bson:"categoria,omitempty"`
	Material  string             `json:"material,omitempty" bson:"material,omitempty"`
	Unidade   string             `json:"unidade,omitempty" bson:"unidade,omitempty"`
	Status    string             `json:"status,omitempty" bson:"status,omitempty"`
	Descricao string             `json:"descricao,omitempty" bson:"descricao,omitempty"`
	RefID     string             `json:"refID,omitempty" bson:"refID,omitempty"`
	Usuario   string             `json:"usuario,omitempty" bson:"usuario,omitempty"`
	Data      primitive.DateTime `json:"data" bson:"data"`
}

// IsEquipmentEvent reports whether tipo is one of the unit level events
// clients are allowed to append directly.
func IsEquipmentEvent(tipo string) bool {
	return tipo == EventoEntrega || tipo == EventoAtualizacao || tipo == EventoRetirada
}

// ValidStatus reports whether s is a known equipment unit status
func ValidStatus(s string) bool {
	switch s {
	case StatusOK, StatusAvaria, StatusQuebrado, StatusAusente:
		return true
	}
	return false
}
