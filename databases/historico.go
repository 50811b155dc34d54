package databases

// go generate: mockery --name HistoricoDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

const historicoName = "historico"

// HistoricoDatabase is append-only: there is no update or delete
type HistoricoDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Historico, error)
	InsertOne(ctx context.Context, document models.Historico, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type historicoDatabase struct {
	db DatabaseHelper
}

// NewHistoricoDatabase initializes a new instance of historico database with the provided db connection
func NewHistoricoDatabase(db DatabaseHelper) HistoricoDatabase {
	return &historicoDatabase{
		db: db,
	}
}

func (c *historicoDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Historico, error) {
	var events []models.Historico
	cursor, err := c.db.Collection(historicoName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (c *historicoDatabase) InsertOne(ctx context.Context, document models.Historico, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(historicoName).InsertOne(ctx, document, opts...)
}
