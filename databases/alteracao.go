package databases

// go generate: mockery --name AlteracaoDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

const alteracaoName = "alteracoes"

// AlteracaoDatabase contains the methods to use with the alteracoes collection
type AlteracaoDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.AlteracaoPosto, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AlteracaoPosto, error)
	InsertOne(ctx context.Context, document models.AlteracaoPosto, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type alteracaoDatabase struct {
	db DatabaseHelper
}

// NewAlteracaoDatabase initializes a new instance of the alteracoes database with the provided db connection
func NewAlteracaoDatabase(db DatabaseHelper) AlteracaoDatabase {
	return &alteracaoDatabase{
		db: db,
	}
}

func (c *alteracaoDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.AlteracaoPosto, error) {
	doc := &models.AlteracaoPosto{}
	err := c.db.Collection(alteracaoName).FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *alteracaoDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AlteracaoPosto, error) {
	var docs []models.AlteracaoPosto
	cursor, err := c.db.Collection(alteracaoName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *alteracaoDatabase) InsertOne(ctx context.Context, document models.AlteracaoPosto, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(alteracaoName).InsertOne(ctx, document, opts...)
}

func (c *alteracaoDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(alteracaoName).UpdateOne(ctx, filter, update, opts...)
}

func (c *alteracaoDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return c.db.Collection(alteracaoName).DeleteOne(ctx, filter, opts...)
}

func (c *alteracaoDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(alteracaoName).CountDocuments(ctx, filter, opts...)
}
