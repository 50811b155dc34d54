package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
	"github.com/BrenoBalsini/ultimate-praia-sub000/catalog"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases/mocks"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

const callerEmail = "chefe@praia.com"

// mockDB hands out one mocked collection per collection name
type mockDB struct {
	db    *mocks.DatabaseHelper
	colls map[string]*mocks.CollectionHelper
}

func newMockDB() *mockDB {
	return &mockDB{db: &mocks.DatabaseHelper{}, colls: map[string]*mocks.CollectionHelper{}}
}

func (m *mockDB) coll(name string) *mocks.CollectionHelper {
	if c, ok := m.colls[name]; ok {
		return c
	}
	c := &mocks.CollectionHelper{}
	m.db.On("Collection", name).Return(c)
	m.colls[name] = c
	return c
}

// found returns a single result that decodes into doc
func found[T any](doc T) *mocks.SingleResultHelper {
	sr := &mocks.SingleResultHelper{}
	sr.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**T)
		**arg = doc
	})
	return sr
}

func notFound() *mocks.SingleResultHelper {
	sr := &mocks.SingleResultHelper{}
	sr.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	return sr
}

// cursor returns a cursor that decodes into docs
func cursor[T any](docs []T) *mocks.CursorHelper {
	cr := &mocks.CursorHelper{}
	cr.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]T)
		*arg = docs
	})
	return cr
}

func inserted() *mocks.InsertOneResultHelper {
	return &mocks.InsertOneResultHelper{}
}

func matched(n int64) *mongo.UpdateResult {
	return &mongo.UpdateResult{MatchedCount: n, ModifiedCount: n}
}

// recorder collects published change events
type recorder struct {
	mu     sync.Mutex
	events []models.ChangeEvent
}

func (r *recorder) Publish(ev models.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Colecao + ":" + ev.Operacao
	}
	return out
}

func newRequest(t *testing.T, method, target, body string, vars map[string]string) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, rd)
	if err != nil {
		t.Fatal(err)
	}
	req = req.WithContext(api.WithIdentity(context.Background(), models.Identity{
		Email:         callerEmail,
		Name:          "Chefe",
		Authenticated: true,
	}))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func decodeResponse(t *testing.T, body io.Reader, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

// historicoTipo matches an inserted historico event by tipo
func historicoTipo(tipo string) interface{} {
	return mock.MatchedBy(func(h models.Historico) bool {
		return h.Details.Tipo == tipo
	})
}
