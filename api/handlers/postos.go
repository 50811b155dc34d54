package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
	"github.com/BrenoBalsini/ultimate-praia-sub000/catalog"
	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
	"github.com/BrenoBalsini/ultimate-praia-sub000/status"
)

// Postos serves the catalog and the per post status summaries
type Postos struct {
	HDB     databases.HistoricoDatabase
	FDB     databases.FaltaDatabase
	ADB     databases.AlteracaoDatabase
	Catalog *catalog.Catalog
}

// CatalogoHandler returns posts, material categories and tracked equipment
func (p Postos) CatalogoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, p.Catalog)
}

// PostosStatusHandler returns one summary per catalog post
func (p Postos) PostosStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	summaries, err := p.summarize(ctx, p.Catalog.Postos, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to build postos status", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// PostoStatusHandler returns the summary of a single post
func (p Postos) PostoStatusHandler(w http.ResponseWriter, r *http.Request) {
	posto, err := strconv.Atoi(mux.Vars(r)["posto"])
	if err != nil {
		config.ErrorStatus("posto must be a number", http.StatusBadRequest, w, err)
		return
	}
	if !p.Catalog.HasPosto(posto) {
		config.ErrorStatus("posto not found", http.StatusNotFound, w, fmt.Errorf("unknown posto %d", posto))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	summaries, err := p.summarize(ctx, []int{posto}, bson.M{"posto": posto})
	if err != nil {
		config.ErrorStatus("failed to build posto status", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries[0])
}

// summarize loads equipment events and open tickets. scope holds extra
// filters keyed by field name without the collection prefix.
func (p Postos) summarize(ctx context.Context, postos []int, scope bson.M) ([]status.PostSummary, error) {
	eventFilter := bson.M{"historico.tipo": bson.M{"$in": []string{
		models.EventoEntrega, models.EventoAtualizacao, models.EventoRetirada,
	}}}
	faltaFilter := bson.M{"falta.resolvida": false}
	alteracaoFilter := bson.M{"alteracao.resolvida": false}
	for k, v := range scope {
		eventFilter["historico."+k] = v
		faltaFilter["falta."+k] = v
		alteracaoFilter["alteracao."+k] = v
	}

	events, err := p.HDB.Find(ctx, eventFilter, options.Find().SetSort(bson.D{{Key: "historico.data", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("historico: %w", err)
	}
	faltas, err := p.FDB.Find(ctx, faltaFilter)
	if err != nil {
		return nil, fmt.Errorf("faltas: %w", err)
	}
	alteracoes, err := p.ADB.Find(ctx, alteracaoFilter)
	if err != nil {
		return nil, fmt.Errorf("alteracoes: %w", err)
	}
	return status.Summarize(postos, p.Catalog.Equipamentos, events, faltas, alteracoes), nil
}
