package models

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GVC statuses
const (
	GVCAtivo   = "ativo"
	GVCInativo = "inativo"
)

// GVC holds the structure for the gvcs collection in mongo
type GVC struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details GVCDetails         `json:"gvc" bson:"gvc"`
	Version int32              `json:"__v" bson:"__v"`
}

// GVCDetails holds the lifeguard fields
type GVCDetails struct {
	Nome      string             `json:"nome" bson:"nome"`
	Posicao   int                `json:"posicao" bson:"posicao"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Validate normalizes and checks the lifeguard fields
func (g *GVCDetails) Validate() error {
	g.Nome = strings.TrimSpace(g.Nome)
	if g.Nome == "" {
		return errors.New("nome is required")
	}
	if g.Posicao < 0 {
		return errors.New("posicao must not be negative")
	}
	if g.Status == "" {
		g.Status = GVCAtivo
	}
	if g.Status != GVCAtivo && g.Status != GVCInativo {
		return errors.New("status must be ativo or inativo")
	}
	return nil
}
