package databases

// go generate: mockery --name CondutaDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

const condutaName = "condutas"

// CondutaDatabase contains the methods to use with the condutas collection
type CondutaDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Conduta, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Conduta, error)
	InsertOne(ctx context.Context, document models.Conduta, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type condutaDatabase struct {
	db DatabaseHelper
}

// NewCondutaDatabase initializes a new instance of the condutas database with the provided db connection
func NewCondutaDatabase(db DatabaseHelper) CondutaDatabase {
	return &condutaDatabase{
		db: db,
	}
}

func (c *condutaDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Conduta, error) {
	doc := &models.Conduta{}
	err := c.db.Collection(condutaName).FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *condutaDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Conduta, error) {
	var docs []models.Conduta
	cursor, err := c.db.Collection(condutaName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *condutaDatabase) InsertOne(ctx context.Context, document models.Conduta, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(condutaName).InsertOne(ctx, document, opts...)
}

func (c *condutaDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(condutaName).UpdateOne(ctx, filter, update, opts...)
}

func (c *condutaDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return c.db.Collection(condutaName).DeleteOne(ctx, filter, opts...)
}
