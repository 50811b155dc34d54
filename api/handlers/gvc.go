package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// GVC struct mostly used for mocking tests
type GVC struct {
	DB   databases.GVCDatabase
	CDB  databases.CautelaDatabase
	Live Publisher
}

type gvcUpdate struct {
	Nome    *string `json:"nome"`
	Posicao *int    `json:"posicao"`
	Status  *string `json:"status"`
}

// CreateGVCHandler creates a lifeguard
func (g GVC) CreateGVCHandler(w http.ResponseWriter, r *http.Request) {
	var details models.GVCDetails
	if err := decodeBody(r, &details, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := details.Validate(); err != nil {
		config.ErrorStatus("invalid gvc", http.StatusBadRequest, w, err)
		return
	}
	details.CreatedAt = nowDateTime()
	details.UpdatedAt = details.CreatedAt

	gvc := models.GVC{ID: primitive.NewObjectID(), Details: details}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if _, err := g.DB.InsertOne(ctx, gvc); err != nil {
		config.ErrorStatus("failed to create gvc", http.StatusInternalServerError, w, err)
		return
	}
	logger(r).Infow("gvc created", "gvcID", gvc.ID.Hex())
	publish(g.Live, "gvcs", models.OperacaoCriado, gvc.ID)
	writeJSON(w, http.StatusCreated, gvc)
}

// GVCListHandler lists lifeguards ordered by posicao, optionally filtered by status
func (g GVC) GVCListHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if s := r.URL.Query().Get("status"); s != "" {
		filter["gvc.status"] = s
	}
	opts := options.Find().SetSort(bson.D{{Key: "gvc.posicao", Value: 1}, {Key: "gvc.nome", Value: 1}})

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	gvcs, err := g.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get gvcs", http.StatusInternalServerError, w, err)
		return
	}
	if gvcs == nil {
		gvcs = []models.GVC{}
	}
	writeJSON(w, http.StatusOK, gvcs)
}

// GVCByIDHandler returns a lifeguard given a gvc_id
func (g GVC) GVCByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "gvc_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	gvc, err := g.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get gvc by ID", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, gvc)
}

// UpdateGVCHandler applies a partial update of nome, posicao and status
func (g GVC) UpdateGVCHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "gvc_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	var upd gvcUpdate
	if err := decodeBody(r, &upd, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	gvc, err := g.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get gvc by ID", lookupStatus(err), w, err)
		return
	}

	if upd.Nome != nil {
		gvc.Details.Nome = *upd.Nome
	}
	if upd.Posicao != nil {
		gvc.Details.Posicao = *upd.Posicao
	}
	if upd.Status != nil {
		gvc.Details.Status = *upd.Status
	}
	if err := gvc.Details.Validate(); err != nil {
		config.ErrorStatus("invalid gvc", http.StatusBadRequest, w, err)
		return
	}
	gvc.Details.UpdatedAt = nowDateTime()

	update := bson.M{
		"$set": bson.M{
			"gvc.nome":      gvc.Details.Nome,
			"gvc.posicao":   gvc.Details.Posicao,
			"gvc.status":    gvc.Details.Status,
			"gvc.updatedAt": gvc.Details.UpdatedAt,
		},
		"$inc": bson.M{"__v": 1},
	}
	res, err := g.DB.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		config.ErrorStatus("failed to update gvc", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("gvc not found", http.StatusNotFound, w, databases.ErrNoDocuments)
		return
	}
	gvc.Version++
	publish(g.Live, "gvcs", models.OperacaoAtualizado, id)
	writeJSON(w, http.StatusOK, gvc)
}

// DeleteGVCHandler removes a lifeguard. A lifeguard still holding equipment
// cannot be removed; an empty cautela is removed along with it.
func (g GVC) DeleteGVCHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "gvc_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cautela, err := g.CDB.FindOne(ctx, bson.M{"cautela.gvcID": id.Hex()})
	switch {
	case err == nil && len(cautela.Details.Itens) > 0:
		config.ErrorStatus("gvc still holds cautela items", http.StatusConflict, w, nil)
		return
	case err != nil && !databases.IsNotFound(err):
		config.ErrorStatus("failed to get cautela for gvc", http.StatusInternalServerError, w, err)
		return
	}

	// the empty cautela goes first and only if no checkout landed since it was read
	if cautela != nil {
		removed, err := g.CDB.DeleteOne(ctx, emptyCautelaFilter(cautela))
		if err != nil {
			config.ErrorStatus("failed to delete cautela for gvc", http.StatusInternalServerError, w, err)
			return
		}
		if removed == 0 {
			config.ErrorStatus("gvc still holds cautela items", http.StatusConflict, w, databases.ErrVersionConflict)
			return
		}
		publish(g.Live, "cautelas", models.OperacaoRemovido, cautela.ID)
	}

	deleted, err := g.DB.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to delete gvc", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("gvc not found", http.StatusNotFound, w, databases.ErrNoDocuments)
		return
	}
	publish(g.Live, "gvcs", models.OperacaoRemovido, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "gvc deleted successfully"})
}

func emptyCautelaFilter(cautela *models.Cautela) bson.M {
	return bson.M{
		"_id":           cautela.ID,
		"__v":           cautela.Version,
		"cautela.itens": bson.M{"$size": 0},
	}
}
