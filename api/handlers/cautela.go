package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/logging"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// Cautela struct mostly used for mocking tests
type Cautela struct {
	DB   databases.CautelaDatabase
	GDB  databases.GVCDatabase
	Live Publisher
}

type devolucaoRequest struct {
	CondicaoFinal string `json:"condicaoFinal"`
	Observacao    string `json:"observacao"`
}

type substituicaoRequest struct {
	CondicaoFinal string `json:"condicaoFinal"`
	Item          string `json:"item"`
	Tamanho       string `json:"tamanho"`
	Condicao      string `json:"condicao"`
}

// CautelasHandler lists every cautela
func (c Cautela) CautelasHandler(w http.ResponseWriter, r *http.Request) {
	opts := options.Find().SetSort(bson.D{{Key: "cautela.gvcNome", Value: 1}})

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	cautelas, err := c.DB.Find(ctx, bson.M{}, opts)
	if err != nil {
		config.ErrorStatus("failed to get cautelas", http.StatusInternalServerError, w, err)
		return
	}
	if cautelas == nil {
		cautelas = []models.Cautela{}
	}
	writeJSON(w, http.StatusOK, cautelas)
}

// CautelaByGVCHandler returns the cautela of a gvc_id
func (c Cautela) CautelaByGVCHandler(w http.ResponseWriter, r *http.Request) {
	gvcID, err := pathObjectID(r, "gvc_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	cautela, err := c.DB.FindOne(ctx, bson.M{"cautela.gvcID": gvcID.Hex()})
	if err != nil {
		config.ErrorStatus("failed to get cautela by gvc", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, cautela)
}

// CheckoutItemHandler loans an item to a gvc, opening its cautela on first use
func (c Cautela) CheckoutItemHandler(w http.ResponseWriter, r *http.Request) {
	gvcID, err := pathObjectID(r, "gvc_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	var item models.ItemCautelado
	if err := decodeBody(r, &item, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	cautela, _, err := c.checkout(ctx, gvcID, item)
	if err != nil {
		config.ErrorStatus("failed to checkout item", cautelaErrorStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cautela)
}

// checkoutAttempts bounds how often a checkout re-reads the cautela after
// losing a race to another writer
const checkoutAttempts = 3

// checkout appends item to the gvc's cautela, creating the cautela when the
// gvc has none yet. Lost races are retried against a fresh read.
func (c Cautela) checkout(ctx context.Context, gvcID primitive.ObjectID, item models.ItemCautelado) (*models.Cautela, models.ItemCautelado, error) {
	for attempt := 1; ; attempt++ {
		cautela, added, err := c.checkoutOnce(ctx, gvcID, item)
		lostRace := errors.Is(err, databases.ErrVersionConflict) || databases.IsDuplicateKey(err)
		if !lostRace || attempt == checkoutAttempts {
			return cautela, added, err
		}
		logging.FromContext(ctx).Warnw("cautela checkout lost a race, retrying",
			"gvcID", gvcID.Hex(), "attempt", attempt, "error", err)
	}
}

func (c Cautela) checkoutOnce(ctx context.Context, gvcID primitive.ObjectID, item models.ItemCautelado) (*models.Cautela, models.ItemCautelado, error) {
	at := nowDateTime()

	cautela, err := c.DB.FindOne(ctx, bson.M{"cautela.gvcID": gvcID.Hex()})
	if err != nil && !databases.IsNotFound(err) {
		return nil, models.ItemCautelado{}, err
	}

	if cautela == nil {
		gvc, err := c.GDB.FindOne(ctx, bson.M{"_id": gvcID})
		if err != nil {
			return nil, models.ItemCautelado{}, err
		}
		cautela = &models.Cautela{
			ID: primitive.NewObjectID(),
			Details: models.CautelaDetails{
				GVCID:     gvcID.Hex(),
				GVCNome:   gvc.Details.Nome,
				Itens:     []models.ItemCautelado{},
				Historico: []models.ItemHistorico{},
				CreatedAt: at,
			},
		}
		added, err := cautela.Details.AddItem(item, at)
		if err != nil {
			return nil, models.ItemCautelado{}, err
		}
		if _, err := c.DB.InsertOne(ctx, *cautela); err != nil {
			return nil, models.ItemCautelado{}, err
		}
		publish(c.Live, "cautelas", models.OperacaoCriado, cautela.ID)
		return cautela, added, nil
	}

	added, err := cautela.Details.AddItem(item, at)
	if err != nil {
		return nil, models.ItemCautelado{}, err
	}
	if err := c.save(ctx, cautela); err != nil {
		return nil, models.ItemCautelado{}, err
	}
	return cautela, added, nil
}

// ReturnItemHandler moves an active item into the cautela history
func (c Cautela) ReturnItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "cautela_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	var req devolucaoRequest
	if err := decodeBody(r, &req, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	cautela, err := c.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get cautela by ID", lookupStatus(err), w, err)
		return
	}
	if _, err := cautela.Details.ReturnItem(mux.Vars(r)["item_id"], req.CondicaoFinal, req.Observacao, nowDateTime()); err != nil {
		config.ErrorStatus("failed to return item", cautelaErrorStatus(err), w, err)
		return
	}
	if err := c.save(ctx, cautela); err != nil {
		config.ErrorStatus("failed to save cautela", cautelaErrorStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, cautela)
}

// SubstituteItemHandler returns an item and loans its replacement in a single write
func (c Cautela) SubstituteItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "cautela_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	var req substituicaoRequest
	if err := decodeBody(r, &req, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	cautela, err := c.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get cautela by ID", lookupStatus(err), w, err)
		return
	}
	replacement := models.ItemCautelado{Item: req.Item, Tamanho: req.Tamanho, Condicao: req.Condicao}
	if _, _, err := cautela.Details.SubstituteItem(mux.Vars(r)["item_id"], req.CondicaoFinal, replacement, nowDateTime()); err != nil {
		config.ErrorStatus("failed to substitute item", cautelaErrorStatus(err), w, err)
		return
	}
	if err := c.save(ctx, cautela); err != nil {
		config.ErrorStatus("failed to save cautela", cautelaErrorStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, cautela)
}

// DeleteCautelaHandler removes a cautela given a cautela_id
func (c Cautela) DeleteCautelaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "cautela_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	deleted, err := c.DB.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to delete cautela", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("cautela not found", http.StatusNotFound, w, databases.ErrNoDocuments)
		return
	}
	publish(c.Live, "cautelas", models.OperacaoRemovido, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "cautela deleted successfully"})
}

// save writes the item lists back only if nobody else changed the cautela
// since it was read
func (c Cautela) save(ctx context.Context, cautela *models.Cautela) error {
	filter := bson.M{"_id": cautela.ID, "__v": cautela.Version}
	update := bson.M{
		"$set": bson.M{
			"cautela.itens":     cautela.Details.Itens,
			"cautela.historico": cautela.Details.Historico,
			"cautela.updatedAt": cautela.Details.UpdatedAt,
		},
		"$inc": bson.M{"__v": 1},
	}
	res, err := c.DB.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return databases.ErrVersionConflict
	}
	cautela.Version++
	publish(c.Live, "cautelas", models.OperacaoAtualizado, cautela.ID)
	return nil
}

func cautelaErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrItemNotFound), databases.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidCondicao), errors.Is(err, models.ErrItemNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, databases.ErrVersionConflict), databases.IsDuplicateKey(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
