package handlers

import (
	"errors"
	"fmt"
	"net/http"
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

// Alteracao struct mostly used for mocking tests
type Alteracao struct {
	DB      databases.AlteracaoDatabase
	HDB     databases.HistoricoDatabase
	Catalog *catalog.Catalog
	Live    Publisher
}

type observacaoRequest struct {
	Texto string `json:"texto"`
}

// CreateAlteracaoHandler opens a structural issue ticket for a post
func (a Alteracao) CreateAlteracaoHandler(w http.ResponseWriter, r *http.Request) {
	var details models.AlteracaoDetails
	if err := decodeBody(r, &details, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if !a.Catalog.HasPosto(details.Posto) {
		config.ErrorStatus("invalid alteracao", http.StatusBadRequest, w, fmt.Errorf("unknown posto %d", details.Posto))
		return
	}
	details.Descricao = strings.TrimSpace(details.Descricao)
	if details.Descricao == "" {
		config.ErrorStatus("invalid alteracao", http.StatusBadRequest, w, errors.New("descricao is required"))
		return
	}
	details.Resolvida = false
	details.DataResolucao = 0
	details.Observacoes = []models.Observacao{}
	details.CriadoPor = callerEmail(r)
	details.DataCriacao = nowDateTime()

	alteracao := models.AlteracaoPosto{ID: primitive.NewObjectID(), Details: details}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if _, err := a.DB.InsertOne(ctx, alteracao); err != nil {
		config.ErrorStatus("failed to create alteracao", http.StatusInternalServerError, w, err)
		return
	}
	publish(a.Live, "alteracoes", models.OperacaoCriado, alteracao.ID)
	recordHistorico(ctx, a.HDB, a.Live, models.HistoricoDetails{
		Tipo:      models.EventoAlteracao,
		Posto:     details.Posto,
		Descricao: details.Descricao,
		RefID:     alteracao.ID.Hex(),
		Usuario:   details.CriadoPor,
		Data:      details.DataCriacao,
	})
	writeJSON(w, http.StatusCreated, alteracao)
}

// AlteracoesHandler lists tickets, newest first, optionally filtered by posto and resolvida
func (a Alteracao) AlteracoesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := ticketFilter(r, "alteracao")
	if err != nil {
		config.ErrorStatus("invalid query", http.StatusBadRequest, w, err)
		return
	}
	opts := options.Find().SetSort(bson.D{{Key: "alteracao.dataCriacao", Value: -1}})

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	alteracoes, err := a.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get alteracoes", http.StatusInternalServerError, w, err)
		return
	}
	if alteracoes == nil {
		alteracoes = []models.AlteracaoPosto{}
	}
	writeJSON(w, http.StatusOK, alteracoes)
}

// AddObservacaoHandler appends a progress note written by the caller
func (a Alteracao) AddObservacaoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "alteracao_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	var req observacaoRequest
	if err := decodeBody(r, &req, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	texto := strings.TrimSpace(req.Texto)
	if texto == "" {
		config.ErrorStatus("invalid observacao", http.StatusBadRequest, w, errors.New("texto is required"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	alteracao, err := a.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get alteracao by ID", lookupStatus(err), w, err)
		return
	}

	obs := models.Observacao{Texto: texto, Autor: callerEmail(r), Data: nowDateTime()}
	update := bson.M{
		"$push": bson.M{"alteracao.observacoes": obs},
		"$inc":  bson.M{"__v": 1},
	}
	res, err := a.DB.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		config.ErrorStatus("failed to add observacao", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("alteracao not found", http.StatusNotFound, w, databases.ErrNoDocuments)
		return
	}
	alteracao.Details.Observacoes = append(alteracao.Details.Observacoes, obs)
	alteracao.Version++

	publish(a.Live, "alteracoes", models.OperacaoAtualizado, id)
	writeJSON(w, http.StatusCreated, alteracao)
}

// ResolveAlteracaoHandler closes an open ticket
func (a Alteracao) ResolveAlteracaoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "alteracao_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	alteracao, err := a.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get alteracao by ID", lookupStatus(err), w, err)
		return
	}
	if alteracao.Details.Resolvida {
		config.ErrorStatus("alteracao already resolved", http.StatusConflict, w, nil)
		return
	}

	at := nowDateTime()
	update := bson.M{
		"$set": bson.M{"alteracao.resolvida": true, "alteracao.dataResolucao": at},
		"$inc": bson.M{"__v": 1},
	}
	res, err := a.DB.UpdateOne(ctx, bson.M{"_id": id, "alteracao.resolvida": false}, update)
	if err != nil {
		config.ErrorStatus("failed to resolve alteracao", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("alteracao already resolved", http.StatusConflict, w, nil)
		return
	}
	alteracao.Details.Resolvida = true
	alteracao.Details.DataResolucao = at
	alteracao.Version++

	publish(a.Live, "alteracoes", models.OperacaoAtualizado, id)
	recordHistorico(ctx, a.HDB, a.Live, models.HistoricoDetails{
		Tipo:      models.EventoAlteracaoResolvida,
		Posto:     alteracao.Details.Posto,
		Descricao: alteracao.Details.Descricao,
		RefID:     id.Hex(),
		Usuario:   callerEmail(r),
		Data:      at,
	})
	writeJSON(w, http.StatusOK, alteracao)
}

// DeleteAlteracaoHandler removes a ticket given an id
func (a Alteracao) DeleteAlteracaoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "alteracao_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	deleted, err := a.DB.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to delete alteracao", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("alteracao not found", http.StatusNotFound, w, databases.ErrNoDocuments)
		return
	}
	publish(a.Live, "alteracoes", models.OperacaoRemovido, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "alteracao deleted successfully"})
}
