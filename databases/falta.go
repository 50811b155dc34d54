package databases

// go generate: mockery --name FaltaDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

const faltaName = "faltas"

// FaltaDatabase contains the methods to use with the faltas collection
type FaltaDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Falta, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Falta, error)
	InsertOne(ctx context.Context, document models.Falta, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type faltaDatabase struct {
	db DatabaseHelper
}

// NewFaltaDatabase initializes a new instance of the faltas database with the provided db connection
func NewFaltaDatabase(db DatabaseHelper) FaltaDatabase {
	return &faltaDatabase{
		db: db,
	}
}

func (c *faltaDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Falta, error) {
	doc := &models.Falta{}
	err := c.db.Collection(faltaName).FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *faltaDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Falta, error) {
	var docs []models.Falta
	cursor, err := c.db.Collection(faltaName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *faltaDatabase) InsertOne(ctx context.Context, document models.Falta, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(faltaName).InsertOne(ctx, document, opts...)
}

func (c *faltaDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(faltaName).UpdateOne(ctx, filter, update, opts...)
}

func (c *faltaDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return c.db.Collection(faltaName).DeleteOne(ctx, filter, opts...)
}

func (c *faltaDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(faltaName).CountDocuments(ctx, filter, opts...)
}
