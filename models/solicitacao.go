package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrAlreadyDelivered is returned when delivering an item twice
	ErrAlreadyDelivered = errors.New("item already delivered")
	// ErrRequestItemNotFound is returned for an unknown requested item id
	ErrRequestItemNotFound = errors.New("requested item not found")
	// ErrInvalidQuantidade is returned for a negative requested quantity
	ErrInvalidQuantidade = errors.New("quantidade must be at least 1")
)

// Solicitacao holds the structure for the solicitacoes collection in mongo
type Solicitacao struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details SolicitacaoDetails `json:"solicitacao" bson:"solicitacao"`
	Version int32              `json:"__v" bson:"__v"`
}

// SolicitacaoDetails holds the items a lifeguard asked for
type SolicitacaoDetails struct {
	GVCID     string             `json:"gvcID" bson:"gvcID"`
	GVCNome   string             `json:"gvcNome" bson:"gvcNome"`
	Itens     []ItemSolicitado   `json:"itens" bson:"itens"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// ItemSolicitado is a single requested item
type ItemSolicitado struct {
	ID          string             `json:"id" bson:"id"`
	Item        string             `json:"item" bson:"item"`
	Tamanho     string             `json:"tamanho" bson:"tamanho"`
	Quantidade  int                `json:"quantidade" bson:"quantidade"`
	Entregue    bool               `json:"entregue" bson:"entregue"`
	DataEntrega primitive.DateTime `json:"dataEntrega,omitempty" bson:"dataEntrega,omitempty"`
}

// Prepare validates the request and assigns item ids
func (s *SolicitacaoDetails) Prepare() error {
	if strings.TrimSpace(s.GVCID) == "" {
		return errors.New("gvcID is required")
	}
	if len(s.Itens) == 0 {
		return errors.New("at least one item is required")
	}
	for i := range s.Itens {
		it := &s.Itens[i]
		it.Item = strings.TrimSpace(it.Item)
		if it.Item == "" {
			return ErrItemNameRequired
		}
		switch {
		case it.Quantidade < 0:
			return ErrInvalidQuantidade
		case it.Quantidade == 0:
			it.Quantidade = 1
		}
		it.ID = uuid.NewString()
		it.Entregue = false
		it.DataEntrega = 0
	}
	return nil
}

// Deliver flags the item as delivered and reports whether every item of the
// request is now delivered.
func (s *SolicitacaoDetails) Deliver(itemID string, at primitive.DateTime) (ItemSolicitado, bool, error) {
	for i := range s.Itens {
		if s.Itens[i].ID != itemID {
			continue
		}
		if s.Itens[i].Entregue {
			return s.Itens[i], s.AllDelivered(), ErrAlreadyDelivered
		}
		s.Itens[i].Entregue = true
		s.Itens[i].DataEntrega = at
		s.UpdatedAt = at
		return s.Itens[i], s.AllDelivered(), nil
	}
	return ItemSolicitado{}, false, ErrRequestItemNotFound
}

// AllDelivered reports whether no requested item is pending
func (s *SolicitacaoDetails) AllDelivered() bool {
	for _, it := range s.Itens {
		if !it.Entregue {
			return false
		}
	}
	return true
}
