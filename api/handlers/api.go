package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
	"github.com/BrenoBalsini/ultimate-praia-sub000/api/live"
	"github.com/BrenoBalsini/ultimate-praia-sub000/catalog"
	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// RequestTimeout bounds every API request except the live feed
const RequestTimeout = 30 * time.Second

// App stores the router and db connection, so it can be reused
type App struct {
	Router        *mux.Router
	Config        config.Config
	Catalog       *catalog.Catalog
	Hub           *live.Hub
	Authenticator *api.Authenticator
	dbHelper      databases.DatabaseHelper
	client        databases.ClientHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	a.defaults()

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	auth := Auth{Authenticator: a.Authenticator}
	g := GVC{DB: databases.NewGVCDatabase(a.dbHelper), CDB: databases.NewCautelaDatabase(a.dbHelper), Live: a.Hub}
	c := Cautela{DB: databases.NewCautelaDatabase(a.dbHelper), GDB: databases.NewGVCDatabase(a.dbHelper), Live: a.Hub}
	s := Solicitacao{
		DB:      databases.NewSolicitacaoDatabase(a.dbHelper),
		GDB:     databases.NewGVCDatabase(a.dbHelper),
		HDB:     databases.NewHistoricoDatabase(a.dbHelper),
		Cautela: c,
		Live:    a.Hub,
	}
	f := Falta{DB: databases.NewFaltaDatabase(a.dbHelper), HDB: databases.NewHistoricoDatabase(a.dbHelper), Catalog: a.Catalog, Live: a.Hub}
	alt := Alteracao{DB: databases.NewAlteracaoDatabase(a.dbHelper), HDB: databases.NewHistoricoDatabase(a.dbHelper), Catalog: a.Catalog, Live: a.Hub}
	cond := Conduta{DB: databases.NewCondutaDatabase(a.dbHelper), GDB: databases.NewGVCDatabase(a.dbHelper), Live: a.Hub}
	h := Historico{DB: databases.NewHistoricoDatabase(a.dbHelper), Catalog: a.Catalog, Live: a.Hub}
	p := Postos{
		HDB:     databases.NewHistoricoDatabase(a.dbHelper),
		FDB:     databases.NewFaltaDatabase(a.dbHelper),
		ADB:     databases.NewAlteracaoDatabase(a.dbHelper),
		Catalog: a.Catalog,
	}
	m := MetricsHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	mw := a.Authenticator.Middleware

	// the live feed is long lived and hijacks the connection, so it skips the timeout
	apiV1.Handle("/live", mw(http.HandlerFunc(a.Hub.ServeWS))).Methods("GET")

	apiCreate := apiV1.NewRoute().Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(RequestTimeout))

	apiCreate.Handle("/auth/session", http.HandlerFunc(auth.CreateSessionHandler)).Methods("POST")
	apiCreate.Handle("/auth/session", http.HandlerFunc(auth.DeleteSessionHandler)).Methods("DELETE")
	apiCreate.Handle("/auth/me", mw(http.HandlerFunc(auth.MeHandler))).Methods("GET")

	apiCreate.Handle("/gvc", mw(http.HandlerFunc(g.CreateGVCHandler))).Methods("POST")
	apiCreate.Handle("/gvcs", mw(http.HandlerFunc(g.GVCListHandler))).Methods("GET")
	apiCreate.Handle("/gvc/{gvc_id}", mw(http.HandlerFunc(g.GVCByIDHandler))).Methods("GET")
	apiCreate.Handle("/gvc/{gvc_id}", mw(http.HandlerFunc(g.UpdateGVCHandler))).Methods("PUT")
	apiCreate.Handle("/gvc/{gvc_id}", mw(http.HandlerFunc(g.DeleteGVCHandler))).Methods("DELETE")

	apiCreate.Handle("/cautelas", mw(http.HandlerFunc(c.CautelasHandler))).Methods("GET")
	apiCreate.Handle("/cautela/gvc/{gvc_id}", mw(http.HandlerFunc(c.CautelaByGVCHandler))).Methods("GET")
	apiCreate.Handle("/cautela/gvc/{gvc_id}/itens", mw(http.HandlerFunc(c.CheckoutItemHandler))).Methods("POST")
	apiCreate.Handle("/cautela/{cautela_id}/itens/{item_id}/devolucao", mw(http.HandlerFunc(c.ReturnItemHandler))).Methods("POST")
	apiCreate.Handle("/cautela/{cautela_id}/itens/{item_id}/substituicao", mw(http.HandlerFunc(c.SubstituteItemHandler))).Methods("POST")
	apiCreate.Handle("/cautela/{cautela_id}", mw(http.HandlerFunc(c.DeleteCautelaHandler))).Methods("DELETE")

	apiCreate.Handle("/solicitacao", mw(http.HandlerFunc(s.CreateSolicitacaoHandler))).Methods("POST")
	apiCreate.Handle("/solicitacoes", mw(http.HandlerFunc(s.SolicitacoesHandler))).Methods("GET")
	apiCreate.Handle("/solicitacao/{solicitacao_id}", mw(http.HandlerFunc(s.SolicitacaoByIDHandler))).Methods("GET")
	apiCreate.Handle("/solicitacao/{solicitacao_id}", mw(http.HandlerFunc(s.DeleteSolicitacaoHandler))).Methods("DELETE")
	apiCreate.Handle("/solicitacao/{solicitacao_id}/itens/{item_id}/entrega", mw(http.HandlerFunc(s.DeliverItemHandler))).Methods("PUT")

	apiCreate.Handle("/falta", mw(http.HandlerFunc(f.CreateFaltaHandler))).Methods("POST")
	apiCreate.Handle("/faltas", mw(http.HandlerFunc(f.FaltasHandler))).Methods("GET")
	apiCreate.Handle("/falta/{falta_id}/resolver", mw(http.HandlerFunc(f.ResolveFaltaHandler))).Methods("PUT")
	apiCreate.Handle("/falta/{falta_id}", mw(http.HandlerFunc(f.DeleteFaltaHandler))).Methods("DELETE")

	apiCreate.Handle("/alteracao", mw(http.HandlerFunc(alt.CreateAlteracaoHandler))).Methods("POST")
	apiCreate.Handle("/alteracoes", mw(http.HandlerFunc(alt.AlteracoesHandler))).Methods("GET")
	apiCreate.Handle("/alteracao/{alteracao_id}/observacoes", mw(http.HandlerFunc(alt.AddObservacaoHandler))).Methods("POST")
	apiCreate.Handle("/alteracao/{alteracao_id}/resolver", mw(http.HandlerFunc(alt.ResolveAlteracaoHandler))).Methods("PUT")
	apiCreate.Handle("/alteracao/{alteracao_id}", mw(http.HandlerFunc(alt.DeleteAlteracaoHandler))).Methods("DELETE")

	apiCreate.Handle("/conduta", mw(http.HandlerFunc(cond.CreateCondutaHandler))).Methods("POST")
	apiCreate.Handle("/condutas", mw(http.HandlerFunc(cond.CondutasHandler))).Methods("GET")
	apiCreate.Handle("/conduta/{conduta_id}", mw(http.HandlerFunc(cond.CondutaByIDHandler))).Methods("GET")
	apiCreate.Handle("/conduta/{conduta_id}", mw(http.HandlerFunc(cond.UpdateCondutaHandler))).Methods("PUT")
	apiCreate.Handle("/conduta/{conduta_id}", mw(http.HandlerFunc(cond.DeleteCondutaHandler))).Methods("DELETE")

	apiCreate.Handle("/historico", mw(http.HandlerFunc(h.CreateHistoricoHandler))).Methods("POST")
	apiCreate.Handle("/historico", mw(http.HandlerFunc(h.HistoricoHandler))).Methods("GET")

	apiCreate.Handle("/catalogo", mw(http.HandlerFunc(p.CatalogoHandler))).Methods("GET")
	apiCreate.Handle("/postos/status", mw(http.HandlerFunc(p.PostosStatusHandler))).Methods("GET")
	apiCreate.Handle("/postos/{posto}/status", mw(http.HandlerFunc(p.PostoStatusHandler))).Methods("GET")

	apiCreate.Handle("/metrics", mw(http.HandlerFunc(m.GetMetricsDashboard))).Methods("GET")

	return r
}

// Handler wraps the router with CORS so preflight requests are answered
// before route matching
func (a *App) Handler() http.Handler {
	return api.CORSMiddleware(a.Config.CORSOrigin)(a.Router)
}

func (a *App) defaults() {
	if a.Catalog == nil {
		cat, err := catalog.Default()
		if err != nil {
			zap.S().Fatalw("embedded catalog is invalid", "error", err)
		}
		a.Catalog = cat
	}
	if a.Hub == nil {
		a.Hub = live.NewHub(originChecker(a.Config.CORSOrigin))
	}
	if a.Authenticator == nil {
		a.Authenticator = api.NewAuthenticator(&a.Config)
	}
}

// originChecker only accepts the configured origin. A wildcard does not open
// the live feed to every site: nil keeps the upgrader's same-origin check.
func originChecker(allowed string) func(r *http.Request) bool {
	if allowed == "" || allowed == "*" {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || strings.EqualFold(origin, allowed)
	}
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize(ctx context.Context) error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect(ctx)
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("ultimate-praia has connected to the database")

	if err := databases.EnsureIndexes(ctx, a.dbHelper); err != nil {
		zap.S().With(err).Error("failed to ensure indexes")
		return err
	}

	if a.Config.CatalogPath != "" {
		cat, err := catalog.Load(a.Config.CatalogPath)
		if err != nil {
			zap.S().With(err).Error("failed to load catalog")
			return err
		}
		a.Catalog = cat
	}

	// initialize api router
	a.initializeRoutes()
	return nil
}

// DB exposes the database handle for background jobs
func (a *App) DB() databases.DatabaseHelper {
	return a.dbHelper
}

// Close disconnects live clients and the database
func (a *App) Close(ctx context.Context) error {
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.client != nil {
		return a.client.Disconnect(ctx)
	}
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
