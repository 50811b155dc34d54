package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
	"github.com/BrenoBalsini/ultimate-praia-sub000/catalog"
	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// Falta struct mostly used for mocking tests
type Falta struct {
	DB      databases.FaltaDatabase
	HDB     databases.HistoricoDatabase
	Catalog *catalog.Catalog
	Live    Publisher
}

// CreateFaltaHandler reports a missing material at a post. Only one open
// falta may exist per posto, categoria and material.
func (f Falta) CreateFaltaHandler(w http.ResponseWriter, r *http.Request) {
	var details models.FaltaDetails
	if err := decodeBody(r, &details, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	details.Categoria = strings.TrimSpace(details.Categoria)
	details.Material = strings.TrimSpace(details.Material)
	if !f.Catalog.HasPosto(details.Posto) {
		config.ErrorStatus("invalid falta", http.StatusBadRequest, w, fmt.Errorf("unknown posto %d", details.Posto))
		return
	}
	if !f.Catalog.HasMaterial(details.Categoria, details.Material) {
		config.ErrorStatus("invalid falta", http.StatusBadRequest, w, fmt.Errorf("unknown material %q in categoria %q", details.Material, details.Categoria))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	open, err := f.DB.CountDocuments(ctx, bson.M{
		"falta.posto":     details.Posto,
		"falta.categoria": details.Categoria,
		"falta.material":  details.Material,
		"falta.resolvida": false,
	})
	if err != nil {
		config.ErrorStatus("failed to count open faltas", http.StatusInternalServerError, w, err)
		return
	}
	if open > 0 {
		config.ErrorStatus("falta already open for this material", http.StatusConflict, w, nil)
		return
	}

	details.Observacao = strings.TrimSpace(details.Observacao)
	details.Resolvida = false
	details.DataResolucao = 0
	details.ReportadoPor = callerEmail(r)
	details.DataFalta = nowDateTime()

	falta := models.Falta{ID: primitive.NewObjectID(), Details: details}
	if _, err := f.DB.InsertOne(ctx, falta); err != nil {
		if databases.IsDuplicateKey(err) {
			config.ErrorStatus("falta already open for this material", http.StatusConflict, w, nil)
			return
		}
		config.ErrorStatus("failed to create falta", http.StatusInternalServerError, w, err)
		return
	}
	publish(f.Live, "faltas", models.OperacaoCriado, falta.ID)
	recordHistorico(ctx, f.HDB, f.Live, models.HistoricoDetails{
		Tipo:      models.EventoFalta,
		Posto:     details.Posto,
		Categoria: details.Categoria,
		Material:  details.Material,
		Descricao: details.Observacao,
		RefID:     falta.ID.Hex(),
		Usuario:   details.ReportadoPor,
		Data:      details.DataFalta,
	})
	writeJSON(w, http.StatusCreated, falta)
}

// FaltasHandler lists faltas, newest first, optionally filtered by posto and resolvida
func (f Falta) FaltasHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := ticketFilter(r, "falta")
	if err != nil {
		config.ErrorStatus("invalid query", http.StatusBadRequest, w, err)
		return
	}
	opts := options.Find().SetSort(bson.D{{Key: "falta.dataFalta", Value: -1}})

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	faltas, err := f.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get faltas", http.StatusInternalServerError, w, err)
		return
	}
	if faltas == nil {
		faltas = []models.Falta{}
	}
	writeJSON(w, http.StatusOK, faltas)
}

// ResolveFaltaHandler closes an open falta
func (f Falta) ResolveFaltaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "falta_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	falta, err := f.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get falta by ID", lookupStatus(err), w, err)
		return
	}
	if falta.Details.Resolvida {
		config.ErrorStatus("falta already resolved", http.StatusConflict, w, nil)
		return
	}

	at := nowDateTime()
	update := bson.M{
		"$set": bson.M{"falta.resolvida": true, "falta.dataResolucao": at},
		"$inc": bson.M{"__v": 1},
	}
	res, err := f.DB.UpdateOne(ctx, bson.M{"_id": id, "falta.resolvida": false}, update)
	if err != nil {
		config.ErrorStatus("failed to resolve falta", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("falta already resolved", http.StatusConflict, w, nil)
		return
	}
	falta.Details.Resolvida = true
	falta.Details.DataResolucao = at
	falta.Version++

	publish(f.Live, "faltas", models.OperacaoAtualizado, id)
	recordHistorico(ctx, f.HDB, f.Live, models.HistoricoDetails{
		Tipo:      models.EventoFaltaResolvida,
		Posto:     falta.Details.Posto,
		Categoria: falta.Details.Categoria,
		Material:  falta.Details.Material,
		RefID:     id.Hex(),
		Usuario:   callerEmail(r),
		Data:      at,
	})
	writeJSON(w, http.StatusOK, falta)
}

// DeleteFaltaHandler removes a falta given an id
func (f Falta) DeleteFaltaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "falta_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	deleted, err := f.DB.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to delete falta", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("falta not found", http.StatusNotFound, w, databases.ErrNoDocuments)
		return
	}
	publish(f.Live, "faltas", models.OperacaoRemovido, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "falta deleted successfully"})
}

// ticketFilter builds the posto and resolvida filter shared by faltas and alteracoes
func ticketFilter(r *http.Request, prefix string) (bson.M, error) {
	filter := bson.M{}
	q := r.URL.Query()
	if p := q.Get("posto"); p != "" {
		posto, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("posto must be a number: %w", err)
		}
		filter[prefix+".posto"] = posto
	}
	if v := q.Get("resolvida"); v != "" {
		resolvida, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("resolvida must be true or false: %w", err)
		}
		filter[prefix+".resolvida"] = resolvida
	}
	return filter, nil
}
