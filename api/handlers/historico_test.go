package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api/handlers"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

func newHistoricoHandler(t *testing.T, m *mockDB) handlers.Historico {
	return handlers.Historico{DB: databases.NewHistoricoDatabase(m.db), Catalog: testCatalog(t)}
}

func TestHistorico_CreateHistoricoHandler(t *testing.T) {
	m := newMockDB()
	m.coll("historico").On("InsertOne", mock.Anything, mock.MatchedBy(func(h models.Historico) bool {
		return h.Details.Usuario == callerEmail && h.Details.Unidade == "R1"
	})).Return(inserted(), nil)

	body := `{"tipo": "entrega", "posto": 2, "material": "radio", "unidade": " R1 ", "status": "ok"}`
	req := newRequest(t, "POST", "/api/v1/historico", body, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newHistoricoHandler(t, m).CreateHistoricoHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	m.coll("historico").AssertExpectations(t)
}

func TestHistorico_CreateHistoricoHandlerRetiradaDefaultsAusente(t *testing.T) {
	m := newMockDB()
	m.coll("historico").On("InsertOne", mock.Anything, mock.MatchedBy(func(h models.Historico) bool {
		return h.Details.Status == models.StatusAusente
	})).Return(inserted(), nil)

	body := `{"tipo": "retirada", "posto": 2, "material": "radio", "unidade": "R1"}`
	req := newRequest(t, "POST", "/api/v1/historico", body, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newHistoricoHandler(t, m).CreateHistoricoHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestHistorico_CreateHistoricoHandlerRejects(t *testing.T) {
	tests := map[string]struct {
		body     string
		expected string
	}{
		"server side tipo": {
			body:     `{"tipo": "falta", "posto": 2, "material": "radio", "unidade": "R1", "status": "ok"}`,
			expected: `tipo \"falta\" cannot be recorded directly`,
		},
		"unknown posto": {
			body:     `{"tipo": "entrega", "posto": 0, "material": "radio", "unidade": "R1", "status": "ok"}`,
			expected: "unknown posto 0",
		},
		"untracked material": {
			body:     `{"tipo": "entrega", "posto": 2, "material": "apito", "unidade": "A1", "status": "ok"}`,
			expected: `material \"apito\" is not tracked by unit`,
		},
		"missing unidade": {
			body:     `{"tipo": "entrega", "posto": 2, "material": "radio", "status": "ok"}`,
			expected: "unidade is required",
		},
		"bad status": {
			body:     `{"tipo": "atualizacao", "posto": 2, "material": "radio", "unidade": "R1", "status": "otimo"}`,
			expected: "status must be ok, avaria, quebrado or ausente",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			m := newMockDB()
			req := newRequest(t, "POST", "/api/v1/historico", tc.body, nil)
			rr := httptest.NewRecorder()
			http.HandlerFunc(newHistoricoHandler(t, m).CreateHistoricoHandler).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, `{"Response":{"Message":"invalid historico","Error":"`+tc.expected+`"}}`, rr.Body.String())
		})
	}
}

func TestHistorico_HistoricoHandlerAscending(t *testing.T) {
	m := newMockDB()
	ascending := mock.MatchedBy(func(o *options.FindOptions) bool {
		sort, ok := o.Sort.(bson.D)
		return ok && sort[0].Key == "historico.data" && sort[0].Value == 1 && *o.Limit == 50
	})
	m.coll("historico").On("Find", mock.Anything, bson.M{"historico.posto": 2, "historico.material": "radio"}, ascending).
		Return(cursor([]models.Historico{{Details: models.HistoricoDetails{Tipo: models.EventoEntrega}}}), nil)

	req := newRequest(t, "GET", "/api/v1/historico?posto=2&material=radio&order=asc", "", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newHistoricoHandler(t, m).HistoricoHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got []models.Historico
	decodeResponse(t, rr.Body, &got)
	assert.Len(t, got, 1)
}

func TestHistorico_HistoricoHandlerBadOrder(t *testing.T) {
	m := newMockDB()
	req := newRequest(t, "GET", "/api/v1/historico?order=sideways", "", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(newHistoricoHandler(t, m).HistoricoHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"Response":{"Message":"invalid query","Error":"order must be asc or desc"}}`, rr.Body.String())
}
