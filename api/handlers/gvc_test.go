package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api/handlers"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

func newGVCHandler(m *mockDB, live handlers.Publisher) handlers.GVC {
	return handlers.GVC{
		DB:   databases.NewGVCDatabase(m.db),
		CDB:  databases.NewCautelaDatabase(m.db),
		Live: live,
	}
}

func TestGVC_CreateGVCHandlerBadBody(t *testing.T) {
	m := newMockDB()
	req := newRequest(t, "POST", "/api/v1/gvc", "{", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).CreateGVCHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
	expected := `{"Response":{"Message":"failed to decode request body","Error":"unexpected EOF"}}`
	if rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}

func TestGVC_CreateGVCHandlerMissingNome(t *testing.T) {
	m := newMockDB()
	req := newRequest(t, "POST", "/api/v1/gvc", `{"nome": "  ", "posicao": 1}`, nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).CreateGVCHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
	expected := `{"Response":{"Message":"invalid gvc","Error":"nome is required"}}`
	if rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}

func TestGVC_CreateGVCHandler(t *testing.T) {
	m := newMockDB()
	live := &recorder{}
	m.coll("gvcs").On("InsertOne", mock.Anything, mock.AnythingOfType("models.GVC")).Return(inserted(), nil)

	req := newRequest(t, "POST", "/api/v1/gvc", `{"nome": "Ana Souza", "posicao": 3}`, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, live).CreateGVCHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got models.GVC
	decodeResponse(t, rr.Body, &got)
	assert.False(t, got.ID.IsZero())
	assert.Equal(t, "Ana Souza", got.Details.Nome)
	assert.Equal(t, models.GVCAtivo, got.Details.Status)
	assert.Equal(t, []string{"gvcs:criado"}, live.ops())
}

func TestGVC_CreateGVCHandlerInsertError(t *testing.T) {
	m := newMockDB()
	m.coll("gvcs").On("InsertOne", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	req := newRequest(t, "POST", "/api/v1/gvc", `{"nome": "Ana"}`, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).CreateGVCHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, `{"Response":{"Message":"failed to create gvc","Error":"mocked-error"}}`, rr.Body.String())
}

func TestGVC_GVCListHandler(t *testing.T) {
	m := newMockDB()
	gvcs := []models.GVC{
		{ID: primitive.NewObjectID(), Details: models.GVCDetails{Nome: "Ana", Posicao: 1, Status: models.GVCAtivo}},
		{ID: primitive.NewObjectID(), Details: models.GVCDetails{Nome: "Bruno", Posicao: 2, Status: models.GVCAtivo}},
	}
	byPosicao := mock.MatchedBy(func(o *options.FindOptions) bool {
		sort, ok := o.Sort.(bson.D)
		return ok && len(sort) > 0 && sort[0].Key == "gvc.posicao" && sort[0].Value == 1
	})
	m.coll("gvcs").On("Find", mock.Anything, bson.M{"gvc.status": "ativo"}, byPosicao).Return(cursor(gvcs), nil)

	req := newRequest(t, "GET", "/api/v1/gvcs?status=ativo", "", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).GVCListHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []models.GVC
	decodeResponse(t, rr.Body, &got)
	assert.Len(t, got, 2)
	assert.Equal(t, "Bruno", got[1].Details.Nome)
}

func TestGVC_GVCListHandlerEmpty(t *testing.T) {
	m := newMockDB()
	m.coll("gvcs").On("Find", mock.Anything, bson.M{}, mock.Anything).Return(cursor[models.GVC](nil), nil)

	req := newRequest(t, "GET", "/api/v1/gvcs", "", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).GVCListHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestGVC_GVCByIDHandlerInvalidID(t *testing.T) {
	m := newMockDB()
	req := newRequest(t, "GET", "/api/v1/gvc/1234", "", map[string]string{"gvc_id": "1234"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).GVCByIDHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
	expected := `{"Response":{"Message":"failed to get objectID from Hex","Error":"the provided hex string is not a valid ObjectID"}}`
	if rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}

func TestGVC_GVCByIDHandlerNotFound(t *testing.T) {
	m := newMockDB()
	id := primitive.NewObjectID()
	m.coll("gvcs").On("FindOne", mock.Anything, bson.M{"_id": id}).Return(notFound())

	req := newRequest(t, "GET", "/api/v1/gvc/"+id.Hex(), "", map[string]string{"gvc_id": id.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).GVCByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGVC_UpdateGVCHandler(t *testing.T) {
	m := newMockDB()
	live := &recorder{}
	id := primitive.NewObjectID()
	current := models.GVC{ID: id, Details: models.GVCDetails{Nome: "Ana", Posicao: 1, Status: models.GVCAtivo}, Version: 2}
	m.coll("gvcs").On("FindOne", mock.Anything, bson.M{"_id": id}).Return(found(current))
	m.coll("gvcs").On("UpdateOne", mock.Anything, bson.M{"_id": id}, mock.MatchedBy(func(u bson.M) bool {
		set := u["$set"].(bson.M)
		return set["gvc.status"] == models.GVCInativo && set["gvc.nome"] == "Ana"
	})).Return(matched(1), nil)

	req := newRequest(t, "PUT", "/api/v1/gvc/"+id.Hex(), `{"status": "inativo"}`, map[string]string{"gvc_id": id.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, live).UpdateGVCHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got models.GVC
	decodeResponse(t, rr.Body, &got)
	assert.Equal(t, models.GVCInativo, got.Details.Status)
	assert.Equal(t, int32(3), got.Version)
	assert.Equal(t, []string{"gvcs:atualizado"}, live.ops())
}

func TestGVC_UpdateGVCHandlerInvalidStatus(t *testing.T) {
	m := newMockDB()
	id := primitive.NewObjectID()
	current := models.GVC{ID: id, Details: models.GVCDetails{Nome: "Ana", Status: models.GVCAtivo}}
	m.coll("gvcs").On("FindOne", mock.Anything, bson.M{"_id": id}).Return(found(current))

	req := newRequest(t, "PUT", "/api/v1/gvc/"+id.Hex(), `{"status": "ferias"}`, map[string]string{"gvc_id": id.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).UpdateGVCHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	m.coll("gvcs").AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestGVC_DeleteGVCHandlerHoldsItems(t *testing.T) {
	m := newMockDB()
	id := primitive.NewObjectID()
	cautela := models.Cautela{
		ID: primitive.NewObjectID(),
		Details: models.CautelaDetails{
			GVCID: id.Hex(),
			Itens: []models.ItemCautelado{{ID: "a", Item: "apito", Condicao: models.CondicaoBom}},
		},
	}
	m.coll("cautelas").On("FindOne", mock.Anything, bson.M{"cautela.gvcID": id.Hex()}).Return(found(cautela))

	req := newRequest(t, "DELETE", "/api/v1/gvc/"+id.Hex(), "", map[string]string{"gvc_id": id.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).DeleteGVCHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, `{"Response":{"Message":"gvc still holds cautela items","Error":""}}`, rr.Body.String())
}

func TestGVC_DeleteGVCHandlerRemovesEmptyCautela(t *testing.T) {
	m := newMockDB()
	live := &recorder{}
	id := primitive.NewObjectID()
	cautela := models.Cautela{ID: primitive.NewObjectID(), Details: models.CautelaDetails{GVCID: id.Hex()}}
	m.coll("cautelas").On("FindOne", mock.Anything, bson.M{"cautela.gvcID": id.Hex()}).Return(found(cautela))
	m.coll("cautelas").On("DeleteOne", mock.Anything, bson.M{
		"_id":           cautela.ID,
		"__v":           cautela.Version,
		"cautela.itens": bson.M{"$size": 0},
	}).Return(int64(1), nil)
	m.coll("gvcs").On("DeleteOne", mock.Anything, bson.M{"_id": id}).Return(int64(1), nil)

	req := newRequest(t, "DELETE", "/api/v1/gvc/"+id.Hex(), "", map[string]string{"gvc_id": id.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, live).DeleteGVCHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"cautelas:removido", "gvcs:removido"}, live.ops())
}

func TestGVC_DeleteGVCHandlerCheckoutDuringDelete(t *testing.T) {
	m := newMockDB()
	id := primitive.NewObjectID()
	cautela := models.Cautela{ID: primitive.NewObjectID(), Details: models.CautelaDetails{GVCID: id.Hex()}, Version: 2}
	m.coll("cautelas").On("FindOne", mock.Anything, bson.M{"cautela.gvcID": id.Hex()}).Return(found(cautela))
	m.coll("cautelas").On("DeleteOne", mock.Anything, mock.Anything).Return(int64(0), nil)

	req := newRequest(t, "DELETE", "/api/v1/gvc/"+id.Hex(), "", map[string]string{"gvc_id": id.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).DeleteGVCHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, `{"Response":{"Message":"gvc still holds cautela items","Error":"document was modified concurrently"}}`, rr.Body.String())
	m.coll("gvcs").AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestGVC_DeleteGVCHandlerNotFound(t *testing.T) {
	m := newMockDB()
	id := primitive.NewObjectID()
	m.coll("cautelas").On("FindOne", mock.Anything, bson.M{"cautela.gvcID": id.Hex()}).Return(notFound())
	m.coll("gvcs").On("DeleteOne", mock.Anything, bson.M{"_id": id}).Return(int64(0), nil)

	req := newRequest(t, "DELETE", "/api/v1/gvc/"+id.Hex(), "", map[string]string{"gvc_id": id.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(newGVCHandler(m, nil).DeleteGVCHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
