package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AlteracaoPosto holds the structure for the alteracoes collection in mongo
type AlteracaoPosto struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details AlteracaoDetails   `json:"alteracao" bson:"alteracao"`
	Version int32              `json:"__v" bson:"__v"`
}

// AlteracaoDetails is a structural issue ticket for a post
type AlteracaoDetails struct {
	Posto         int                `json:"posto" bson:"posto"`
	Descricao     string             `json:"descricao" bson:"descricao"`
	Resolvida     bool               `json:"resolvida" bson:"resolvida"`
	Observacoes   []Observacao       `json:"observacoes" bson:"observacoes"`
	CriadoPor     string             `json:"criadoPor,omitempty" bson:"criadoPor,omitempty"`
	DataCriacao   primitive.DateTime `json:"dataCriacao" bson:"dataCriacao"`
	DataResolucao primitive.DateTime `json:"dataResolucao,omitempty" bson:"dataResolucao,omitempty"`
}

// Observacao is a progress note on an alteracao
type Observacao struct {
	Texto string             `json:"texto" bson:"texto"`
	Autor string             `json:"autor" bson:"autor"`
	Data  primitive.DateTime `json:"data" bson:"data"`
}
