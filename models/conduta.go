package models

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conduta types
const (
	CondutaAdvertencia = "advertencia"
	CondutaSuspensao   = "suspensao"
	CondutaElogio      = "elogio"
)

// Conduta holds the structure for the condutas collection in mongo
type Conduta struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details CondutaDetails     `json:"conduta" bson:"conduta"`
	Version int32              `json:"__v" bson:"__v"`
}

// CondutaDetails is a disciplinary or commendation record for a lifeguard
type CondutaDetails struct {
	GVCID         string             `json:"gvcID" bson:"gvcID"`
	GVCNome       string             `json:"gvcNome" bson:"gvcNome"`
	Tipo          string             `json:"tipo" bson:"tipo"`
	Descricao     string             `json:"descricao" bson:"descricao"`
	Data          primitive.DateTime `json:"data" bson:"data"`
	RegistradoPor string             `json:"registradoPor" bson:"registradoPor"`
	CreatedAt     primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt     primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// ValidCondutaTipo reports whether t is a known conduct type
func ValidCondutaTipo(t string) bool {
	return t == CondutaAdvertencia || t == CondutaSuspensao || t == CondutaElogio
}

// Validate checks the record fields
func (c *CondutaDetails) Validate() error {
	if strings.TrimSpace(c.GVCID) == "" {
		return errors.New("gvcID is required")
	}
	if !ValidCondutaTipo(c.Tipo) {
		return errors.New("tipo must be advertencia, suspensao or elogio")
	}
	c.Descricao = strings.TrimSpace(c.Descricao)
	if c.Descricao == "" {
		return errors.New("descricao is required")
	}
	return nil
}
