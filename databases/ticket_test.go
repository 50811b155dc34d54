package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases/mocks"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

func TestFaltaDatabase_CountDocuments(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	filter := bson.M{"falta.posto": 3, "falta.resolvida": false}
	collectionHelper.On("CountDocuments", mock.Anything, filter).Return(int64(1), nil)
	dbHelper.On("Collection", "faltas").Return(collectionHelper)

	n, err := databases.NewFaltaDatabase(dbHelper).CountDocuments(context.Background(), filter)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAlteracaoDatabase_Find(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.AlteracaoPosto)
		*arg = []models.AlteracaoPosto{{Details: models.AlteracaoDetails{Posto: 5, Descricao: "telhado"}}}
	})
	collectionHelper.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	dbHelper.On("Collection", "alteracoes").Return(collectionHelper)

	docs, err := databases.NewAlteracaoDatabase(dbHelper).Find(context.Background(), bson.M{})

	assert.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, "telhado", docs[0].Details.Descricao)
}

func TestCautelaDatabase_FindOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	sr := &mocks.SingleResultHelper{}

	sr.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Cautela)
		(*arg).ID = mockedID
		(*arg).Details.GVCID = "gvc-1"
	})
	collectionHelper.On("FindOne", mock.Anything, bson.M{"cautela.gvcID": "gvc-1"}).Return(sr)
	dbHelper.On("Collection", "cautelas").Return(collectionHelper)

	doc, err := databases.NewCautelaDatabase(dbHelper).FindOne(context.Background(), bson.M{"cautela.gvcID": "gvc-1"})

	assert.NoError(t, err)
	assert.Equal(t, mockedID, doc.ID)
}

func TestCondutaDatabase_DeleteOneError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(0), errors.New("mongo down"))
	dbHelper.On("Collection", "condutas").Return(collectionHelper)

	n, err := databases.NewCondutaDatabase(dbHelper).DeleteOne(context.Background(), bson.M{"_id": mockedID})

	assert.Zero(t, n)
	assert.EqualError(t, err, "mongo down")
}
