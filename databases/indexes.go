package databases

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CautelaIndexes keeps a single cautela per gvc
func CautelaIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{{
		Keys:    bson.D{{Key: "cautela.gvcID", Value: 1}},
		Options: options.Index().SetName("cautela_gvc_unique").SetUnique(true),
	}}
}

// FaltaIndexes allows one open falta per posto, categoria and material
func FaltaIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{{
		Keys: bson.D{
			{Key: "falta.posto", Value: 1},
			{Key: "falta.categoria", Value: 1},
			{Key: "falta.material", Value: 1},
		},
		Options: options.Index().
			SetName("falta_open_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"falta.resolvida": false}),
	}}
}

// EnsureIndexes creates the indexes backing the uniqueness rules. Creating an
// index that already exists with the same definition is a no-op.
func EnsureIndexes(ctx context.Context, db DatabaseHelper) error {
	for name, models := range map[string][]mongo.IndexModel{
		cautelaName: CautelaIndexes(),
		faltaName:   FaltaIndexes(),
	} {
		if _, err := db.Collection(name).CreateIndexes(ctx, models); err != nil {
			return fmt.Errorf("%s indexes: %w", name, err)
		}
	}
	return nil
}
