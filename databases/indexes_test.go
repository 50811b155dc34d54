package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases/mocks"
)

func TestEnsureIndexes(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	cautelas := &mocks.CollectionHelper{}
	faltas := &mocks.CollectionHelper{}

	cautelas.On("CreateIndexes", mock.Anything, databases.CautelaIndexes()).Return([]string{"cautela_gvc_unique"}, nil)
	faltas.On("CreateIndexes", mock.Anything, databases.FaltaIndexes()).Return([]string{"falta_open_unique"}, nil)
	dbHelper.On("Collection", "cautelas").Return(cautelas)
	dbHelper.On("Collection", "faltas").Return(faltas)

	err := databases.EnsureIndexes(context.Background(), dbHelper)

	assert.NoError(t, err)
	cautelas.AssertExpectations(t)
	faltas.AssertExpectations(t)
}

func TestEnsureIndexesError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	coll := &mocks.CollectionHelper{}

	coll.On("CreateIndexes", mock.Anything, mock.Anything).Return(nil, errors.New("not authorized"))
	dbHelper.On("Collection", mock.Anything).Return(coll)

	err := databases.EnsureIndexes(context.Background(), dbHelper)

	assert.ErrorContains(t, err, "indexes: not authorized")
}

func TestIndexDefinitions(t *testing.T) {
	cautela := databases.CautelaIndexes()[0]
	assert.True(t, *cautela.Options.Unique)
	assert.Equal(t, bson.D{{Key: "cautela.gvcID", Value: 1}}, cautela.Keys)

	falta := databases.FaltaIndexes()[0]
	assert.True(t, *falta.Options.Unique)
	assert.Equal(t, bson.M{"falta.resolvida": false}, falta.Options.PartialFilterExpression)
}

func TestIsDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}

	assert.True(t, databases.IsDuplicateKey(dup))
	assert.False(t, databases.IsDuplicateKey(errors.New("boom")))
}
