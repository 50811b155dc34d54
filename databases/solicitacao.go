package databases

// go generate: mockery --name SolicitacaoDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

const solicitacaoName = "solicitacoes"

// SolicitacaoDatabase contains the methods to use with the solicitacoes collection
type SolicitacaoDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Solicitacao, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Solicitacao, error)
	InsertOne(ctx context.Context, document models.Solicitacao, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	DeleteFullyDelivered(ctx context.Context) (int64, error)
}

type solicitacaoDatabase struct {
	db DatabaseHelper
}

// NewSolicitacaoDatabase initializes a new instance of solicitacao database with the provided db connection
func NewSolicitacaoDatabase(db DatabaseHelper) SolicitacaoDatabase {
	return &solicitacaoDatabase{
		db: db,
	}
}

func (c *solicitacaoDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Solicitacao, error) {
	solicitacao := &models.Solicitacao{}
	err := c.db.Collection(solicitacaoName).FindOne(ctx, filter, opts...).Decode(&solicitacao)
	if err != nil {
		return nil, err
	}
	return solicitacao, nil
}

func (c *solicitacaoDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Solicitacao, error) {
	var solicitacoes []models.Solicitacao
	cursor, err := c.db.Collection(solicitacaoName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&solicitacoes)
	if err != nil {
		return nil, err
	}
	return solicitacoes, nil
}

func (c *solicitacaoDatabase) InsertOne(ctx context.Context, document models.Solicitacao, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(solicitacaoName).InsertOne(ctx, document, opts...)
}

func (c *solicitacaoDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(solicitacaoName).UpdateOne(ctx, filter, update, opts...)
}

func (c *solicitacaoDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return c.db.Collection(solicitacaoName).DeleteOne(ctx, filter, opts...)
}

// DeleteFullyDelivered removes every request with no pending item left
func (c *solicitacaoDatabase) DeleteFullyDelivered(ctx context.Context) (int64, error) {
	return c.db.Collection(solicitacaoName).DeleteMany(ctx, FullyDeliveredFilter())
}

// FullyDeliveredFilter matches requests whose items are all delivered
func FullyDeliveredFilter() bson.M {
	return bson.M{
		"solicitacao.itens": bson.M{
			"$not": bson.M{"$elemMatch": bson.M{"entregue": false}},
		},
	}
}
