package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item conditions for loaned equipment
const (
	CondicaoNovo    = "novo"
	CondicaoBom     = "bom"
	CondicaoRegular = "regular"
	CondicaoRuim    = "ruim"
)

// Movement types recorded when an item leaves the active list
const (
	MovimentacaoDevolucao    = "devolucao"
	MovimentacaoSubstituicao = "substituicao"
)

var (
	// ErrItemNotFound is returned when an item id is not among the active items
	ErrItemNotFound = errors.New("item not found among active items")
	// ErrInvalidCondicao is returned for a condition outside the known set
	ErrInvalidCondicao = errors.New("condicao must be one of novo, bom, regular, ruim")
	// ErrItemNameRequired is returned when a checkout has no item name
	ErrItemNameRequired = errors.New("item is required")
)

// Cautela holds the structure for the cautelas collection in mongo. There is
// exactly one cautela per GVC.
type Cautela struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details CautelaDetails     `json:"cautela" bson:"cautela"`
	Version int32              `json:"__v" bson:"__v"`
}

// CautelaDetails holds the active loans and the return history
type CautelaDetails struct {
	GVCID     string             `json:"gvcID" bson:"gvcID"`
	GVCNome   string             `json:"gvcNome" bson:"gvcNome"`
	Itens     []ItemCautelado    `json:"itens" bson:"itens"`
	Historico []ItemHistorico    `json:"historico" bson:"historico"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// ItemCautelado is an item currently on loan
type ItemCautelado struct {
	ID             string             `json:"id" bson:"id"`
	Item           string             `json:"item" bson:"item"`
	Tamanho        string             `json:"tamanho" bson:"tamanho"`
	Condicao       string             `json:"condicao" bson:"condicao"`
	DataEmprestimo primitive.DateTime `json:"dataEmprestimo" bson:"dataEmprestimo"`
}

// ItemHistorico is an item that was returned or substituted
type ItemHistorico struct {
	ID               string             `json:"id" bson:"id"`
	Item             string             `json:"item" bson:"item"`
	Tamanho          string             `json:"tamanho" bson:"tamanho"`
	CondicaoInicial  string             `json:"condicaoInicial" bson:"condicaoInicial"`
	CondicaoFinal    string             `json:"condicaoFinal" bson:"condicaoFinal"`
	DataEmprestimo   primitive.DateTime `json:"dataEmprestimo" bson:"dataEmprestimo"`
	DataDevolucao    primitive.DateTime `json:"dataDevolucao" bson:"dataDevolucao"`
	TipoMovimentacao string             `json:"tipoMovimentacao" bson:"tipoMovimentacao"`
	Observacao       string             `json:"observacao,omitempty" bson:"observacao,omitempty"`
	SubstituidoPor   string             `json:"substituidoPor,omitempty" bson:"substituidoPor,omitempty"`
}

// ValidCondicao reports whether c is a known item condition
func ValidCondicao(c string) bool {
	switch c {
	case CondicaoNovo, CondicaoBom, CondicaoRegular, CondicaoRuim:
		return true
	}
	return false
}

// AddItem checks out a new item. The item gets a fresh id and, when missing,
// the loan date at.
func (c *CautelaDetails) AddItem(item ItemCautelado, at primitive.DateTime) (ItemCautelado, error) {
	item.Item = strings.TrimSpace(item.Item)
	if item.Item == "" {
		return ItemCautelado{}, ErrItemNameRequired
	}
	if !ValidCondicao(item.Condicao) {
		return ItemCautelado{}, ErrInvalidCondicao
	}
	item.ID = uuid.NewString()
	if item.DataEmprestimo == 0 {
		item.DataEmprestimo = at
	}
	c.Itens = append(c.Itens, item)
	c.UpdatedAt = at
	return item, nil
}

// ReturnItem moves an active item into the history as a devolucao
func (c *CautelaDetails) ReturnItem(itemID, condicaoFinal, observacao string, at primitive.DateTime) (ItemHistorico, error) {
	return c.moveToHistory(itemID, condicaoFinal, observacao, MovimentacaoDevolucao, "", at)
}

// SubstituteItem returns itemID as a substituicao and checks out replacement
// in its place. Name and size default to the returned item's.
func (c *CautelaDetails) SubstituteItem(itemID, condicaoFinal string, replacement ItemCautelado, at primitive.DateTime) (ItemHistorico, ItemCautelado, error) {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return ItemHistorico{}, ItemCautelado{}, ErrItemNotFound
	}
	if !ValidCondicao(condicaoFinal) || !ValidCondicao(replacement.Condicao) {
		return ItemHistorico{}, ItemCautelado{}, ErrInvalidCondicao
	}
	old := c.Itens[idx]
	if strings.TrimSpace(replacement.Item) == "" {
		replacement.Item = old.Item
	}
	if replacement.Tamanho == "" {
		replacement.Tamanho = old.Tamanho
	}
	replacement.DataEmprestimo = at

	added, err := c.AddItem(replacement, at)
	if err != nil {
		return ItemHistorico{}, ItemCautelado{}, err
	}
	h, err := c.moveToHistory(itemID, condicaoFinal, "", MovimentacaoSubstituicao, added.ID, at)
	if err != nil {
		return ItemHistorico{}, ItemCautelado{}, err
	}
	return h, added, nil
}

func (c *CautelaDetails) moveToHistory(itemID, condicaoFinal, observacao, tipo, substituidoPor string, at primitive.DateTime) (ItemHistorico, error) {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return ItemHistorico{}, ErrItemNotFound
	}
	if !ValidCondicao(condicaoFinal) {
		return ItemHistorico{}, ErrInvalidCondicao
	}
	item := c.Itens[idx]
	h := ItemHistorico{
		ID:               item.ID,
		Item:             item.Item,
		Tamanho:          item.Tamanho,
		CondicaoInicial:  item.Condicao,
		CondicaoFinal:    condicaoFinal,
		DataEmprestimo:   item.DataEmprestimo,
		DataDevolucao:    at,
		TipoMovimentacao: tipo,
		Observacao:       strings.TrimSpace(observacao),
		SubstituidoPor:   substituidoPor,
	}
	c.Itens = append(c.Itens[:idx:idx], c.Itens[idx+1:]...)
	c.Historico = append(c.Historico, h)
	c.UpdatedAt = at
	return h, nil
}

func (c *CautelaDetails) indexOf(itemID string) int {
	for i, it := range c.Itens {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}
