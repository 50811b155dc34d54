package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Falta holds the structure for the faltas collection in mongo
type Falta struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details FaltaDetails       `json:"falta" bson:"falta"`
	Version int32              `json:"__v" bson:"__v"`
}

// FaltaDetails is a material shortage reported at a post
type FaltaDetails struct {
	Posto         int                `json:"posto" bson:"posto"`
	Categoria     string             `json:"categoria" bson:"categoria"`
	Material      string             `json:"material" bson:"material"`
	Resolvida     bool               `json:"resolvida" bson:"resolvida"`
	Observacao    string             `json:"observacao,omitempty" bson:"observacao,omitempty"`
	ReportadoPor  string             `json:"reportadoPor,omitempty" bson:"reportadoPor,omitempty"`
	DataFalta     primitive.DateTime `json:"dataFalta" bson:"dataFalta"`
	DataResolucao primitive.DateTime `json:"dataResolucao,omitempty" bson:"dataResolucao,omitempty"`
}
