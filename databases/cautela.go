package databases

// go generate: mockery --name CautelaDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

const cautelaName = "cautelas"

// CautelaDatabase contains the methods to use with the cautelas collection
type CautelaDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Cautela, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Cautela, error)
	InsertOne(ctx context.Context, document models.Cautela, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type cautelaDatabase struct {
	db DatabaseHelper
}

// NewCautelaDatabase initializes a new instance of the cautelas database with the provided db connection
func NewCautelaDatabase(db DatabaseHelper) CautelaDatabase {
	return &cautelaDatabase{
		db: db,
	}
}

func (c *cautelaDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Cautela, error) {
	doc := &models.Cautela{}
	err := c.db.Collection(cautelaName).FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *cautelaDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Cautela, error) {
	var docs []models.Cautela
	cursor, err := c.db.Collection(cautelaName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *cautelaDatabase) InsertOne(ctx context.Context, document models.Cautela, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(cautelaName).InsertOne(ctx, document, opts...)
}

func (c *cautelaDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(cautelaName).UpdateOne(ctx, filter, update, opts...)
}

func (c *cautelaDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return c.db.Collection(cautelaName).DeleteOne(ctx, filter, opts...)
}
