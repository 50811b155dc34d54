package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api/handlers"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

func newCondutaHandler(m *mockDB) handlers.Conduta {
	return handlers.Conduta{
		DB:  databases.NewCondutaDatabase(m.db),
		GDB: databases.NewGVCDatabase(m.db),
	}
}

func TestConduta_CreateCondutaHandler(t *testing.T) {
	m := newMockDB()
	gvcID := primitive.NewObjectID()
	m.coll("gvcs").On("FindOne", mock.Anything, bson.M{"_id": gvcID}).
		Return(found(models.GVC{ID: gvcID, Details: models.GVCDetails{Nome: "Bruno"}}))
	m.coll("condutas").On("InsertOne", mock.Anything, mock.MatchedBy(func(c models.Conduta) bool {
		return c.Details.RegistradoPor == callerEmail && c.Details.GVCNome == "Bruno"
	})).Return(inserted(), nil)

	body := `{"gvcID": "` + gvcID.Hex() + `", "tipo": "elogio", "descricao": "resgate na arrebentacao"}`
	req := newRequest(t, "POST", "/api/v1/conduta", body, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newCondutaHandler(m).CreateCondutaHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var got models.Conduta
	decodeResponse(t, rr.Body, &got)
	assert.Equal(t, models.CondutaElogio, got.Details.Tipo)
	assert.NotZero(t, got.Details.Data)
}

func TestConduta_CreateCondutaHandlerInvalidTipo(t *testing.T) {
	m := newMockDB()
	body := `{"gvcID": "` + primitive.NewObjectID().Hex() + `", "tipo": "multa", "descricao": "x"}`
	req := newRequest(t, "POST", "/api/v1/conduta", body, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newCondutaHandler(m).CreateCondutaHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"Response":{"Message":"invalid conduta","Error":"tipo must be advertencia, suspensao or elogio"}}`, rr.Body.String())
}

func TestConduta_CondutasHandlerFilters(t *testing.T) {
	m := newMockDB()
	m.coll("condutas").On("Find", mock.Anything, bson.M{"conduta.gvcID": "abc", "conduta.tipo": "advertencia"}, mock.Anything).
		Return(cursor[models.Conduta](nil), nil)

	req := newRequest(t, "GET", "/api/v1/condutas?gvc_id=abc&tipo=advertencia", "", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newCondutaHandler(m).CondutasHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestConduta_UpdateCondutaHandler(t *testing.T) {
	m := newMockDB()
	c := models.Conduta{ID: primitive.NewObjectID(), Details: models.CondutaDetails{
		GVCID: "abc", Tipo: models.CondutaAdvertencia, Descricao: "atraso",
	}}
	m.coll("condutas").On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(found(c))
	m.coll("condutas").On("UpdateOne", mock.Anything, bson.M{"_id": c.ID}, mock.Anything).Return(matched(1), nil)

	req := newRequest(t, "PUT", "/", `{"tipo": "suspensao"}`, map[string]string{"conduta_id": c.ID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(newCondutaHandler(m).UpdateCondutaHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got models.Conduta
	decodeResponse(t, rr.Body, &got)
	assert.Equal(t, models.CondutaSuspensao, got.Details.Tipo)
	assert.Equal(t, "atraso", got.Details.Descricao)
}

func TestConduta_CondutaByIDHandlerNotFound(t *testing.T) {
	m := newMockDB()
	id := primitive.NewObjectID()
	m.coll("condutas").On("FindOne", mock.Anything, bson.M{"_id": id}).Return(notFound())

	req := newRequest(t, "GET", "/", "", map[string]string{"conduta_id": id.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(newCondutaHandler(m).CondutaByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestConduta_DeleteCondutaHandler(t *testing.T) {
	m := newMockDB()
	id := primitive.NewObjectID()
	m.coll("condutas").On("DeleteOne", mock.Anything, bson.M{"_id": id}).Return(int64(1), nil)

	req := newRequest(t, "DELETE", "/", "", map[string]string{"conduta_id": id.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(newCondutaHandler(m).DeleteCondutaHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"message":"conduta deleted successfully"}`, rr.Body.String())
}
