package databases

// go generate: mockery --name GVCDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

const gvcName = "gvcs"

// GVCDatabase contains the methods to use with the gvcs collection
type GVCDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.GVC, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.GVC, error)
	InsertOne(ctx context.Context, document models.GVC, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type gvcDatabase struct {
	db DatabaseHelper
}

// NewGVCDatabase initializes a new instance of the gvcs database with the provided db connection
func NewGVCDatabase(db DatabaseHelper) GVCDatabase {
	return &gvcDatabase{
		db: db,
	}
}

func (c *gvcDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.GVC, error) {
	doc := &models.GVC{}
	err := c.db.Collection(gvcName).FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *gvcDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.GVC, error) {
	var docs []models.GVC
	cursor, err := c.db.Collection(gvcName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *gvcDatabase) InsertOne(ctx context.Context, document models.GVC, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(gvcName).InsertOne(ctx, document, opts...)
}

func (c *gvcDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(gvcName).UpdateOne(ctx, filter, update, opts...)
}

func (c *gvcDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return c.db.Collection(gvcName).DeleteOne(ctx, filter, opts...)
}
