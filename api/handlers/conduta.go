package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// Conduta struct mostly used for mocking tests
type Conduta struct {
	DB   databases.CondutaDatabase
	GDB  databases.GVCDatabase
	Live Publisher
}

type condutaUpdate struct {
	Tipo      *string    `json:"tipo"`
	Descricao *string    `json:"descricao"`
	Data      *time.Time `json:"data"`
}

// CreateCondutaHandler records a warning, suspension or commendation for a gvc
func (c Conduta) CreateCondutaHandler(w http.ResponseWriter, r *http.Request) {
	var details models.CondutaDetails
	if err := decodeBody(r, &details, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := details.Validate(); err != nil {
		config.ErrorStatus("invalid conduta", http.StatusBadRequest, w, err)
		return
	}
	gvcID, err := primitive.ObjectIDFromHex(details.GVCID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	gvc, err := c.GDB.FindOne(ctx, bson.M{"_id": gvcID})
	if err != nil {
		config.ErrorStatus("failed to get gvc by ID", lookupStatus(err), w, err)
		return
	}

	details.GVCNome = gvc.Details.Nome
	details.RegistradoPor = callerEmail(r)
	details.CreatedAt = nowDateTime()
	details.UpdatedAt = details.CreatedAt
	if details.Data == 0 {
		details.Data = details.CreatedAt
	}

	conduta := models.Conduta{ID: primitive.NewObjectID(), Details: details}
	if _, err := c.DB.InsertOne(ctx, conduta); err != nil {
		config.ErrorStatus("failed to create conduta", http.StatusInternalServerError, w, err)
		return
	}
	publish(c.Live, "condutas", models.OperacaoCriado, conduta.ID)
	writeJSON(w, http.StatusCreated, conduta)
}

// CondutasHandler lists records, most recent first, optionally filtered by gvc_id and tipo
func (c Conduta) CondutasHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	q := r.URL.Query()
	if g := q.Get("gvc_id"); g != "" {
		filter["conduta.gvcID"] = g
	}
	if t := q.Get("tipo"); t != "" {
		filter["conduta.tipo"] = t
	}
	opts := options.Find().SetSort(bson.D{{Key: "conduta.data", Value: -1}})

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	condutas, err := c.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get condutas", http.StatusInternalServerError, w, err)
		return
	}
	if condutas == nil {
		condutas = []models.Conduta{}
	}
	writeJSON(w, http.StatusOK, condutas)
}

// CondutaByIDHandler returns a record given an id
func (c Conduta) CondutaByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "conduta_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	conduta, err := c.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get conduta by ID", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, conduta)
}

// UpdateCondutaHandler applies a partial update of tipo, descricao and data
func (c Conduta) UpdateCondutaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "conduta_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	var upd condutaUpdate
	if err := decodeBody(r, &upd, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	conduta, err := c.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get conduta by ID", lookupStatus(err), w, err)
		return
	}
	if upd.Tipo != nil {
		conduta.Details.Tipo = *upd.Tipo
	}
	if upd.Descricao != nil {
		conduta.Details.Descricao = *upd.Descricao
	}
	if upd.Data != nil {
		conduta.Details.Data = primitive.NewDateTimeFromTime(*upd.Data)
	}
	if err := conduta.Details.Validate(); err != nil {
		config.ErrorStatus("invalid conduta", http.StatusBadRequest, w, err)
		return
	}
	conduta.Details.UpdatedAt = nowDateTime()

	update := bson.M{
		"$set": bson.M{
			"conduta.tipo":      conduta.Details.Tipo,
			"conduta.descricao": conduta.Details.Descricao,
			"conduta.data":      conduta.Details.Data,
			"conduta.updatedAt": conduta.Details.UpdatedAt,
		},
		"$inc": bson.M{"__v": 1},
	}
	res, err := c.DB.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		config.ErrorStatus("failed to update conduta", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("conduta not found", http.StatusNotFound, w, databases.ErrNoDocuments)
		return
	}
	conduta.Version++
	publish(c.Live, "condutas", models.OperacaoAtualizado, id)
	writeJSON(w, http.StatusOK, conduta)
}

// DeleteCondutaHandler removes a record given an id
func (c Conduta) DeleteCondutaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "conduta_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	deleted, err := c.DB.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to delete conduta", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("conduta not found", http.StatusNotFound, w, databases.ErrNoDocuments)
		return
	}
	publish(c.Live, "condutas", models.OperacaoRemovido, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "conduta deleted successfully"})
}
