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
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// Solicitacao struct mostly used for mocking tests
type Solicitacao struct {
	DB      databases.SolicitacaoDatabase
	GDB     databases.GVCDatabase
	HDB     databases.HistoricoDatabase
	Cautela Cautela
	Live    Publisher
}

type entregaRequest struct {
	Cautelar bool   `json:"cautelar"`
	Condicao string `json:"condicao"`
}

type entregaResponse struct {
	Solicitacao models.Solicitacao    `json:"solicitacao"`
	Item        models.ItemSolicitado `json:"item"`
	Removida    bool                  `json:"removida"`
	Cautela     *models.Cautela       `json:"cautela,omitempty"`

	// CautelaPendente is set when the delivery landed but the loan could not
	// be recorded; the item must be checked out by hand.
	CautelaPendente bool   `json:"cautelaPendente,omitempty"`
	ErroCautela     string `json:"erroCautela,omitempty"`
}

// CreateSolicitacaoHandler registers a lifeguard's request for items
func (s Solicitacao) CreateSolicitacaoHandler(w http.ResponseWriter, r *http.Request) {
	var details models.SolicitacaoDetails
	if err := decodeBody(r, &details, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := details.Prepare(); err != nil {
		config.ErrorStatus("invalid solicitacao", http.StatusBadRequest, w, err)
		return
	}
	gvcID, err := primitive.ObjectIDFromHex(details.GVCID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	gvc, err := s.GDB.FindOne(ctx, bson.M{"_id": gvcID})
	if err != nil {
		config.ErrorStatus("failed to get gvc by ID", lookupStatus(err), w, err)
		return
	}
	details.GVCNome = gvc.Details.Nome
	details.CreatedAt = nowDateTime()
	details.UpdatedAt = details.CreatedAt

	sol := models.Solicitacao{ID: primitive.NewObjectID(), Details: details}
	if _, err := s.DB.InsertOne(ctx, sol); err != nil {
		config.ErrorStatus("failed to create solicitacao", http.StatusInternalServerError, w, err)
		return
	}
	publish(s.Live, "solicitacoes", models.OperacaoCriado, sol.ID)
	writeJSON(w, http.StatusCreated, sol)
}

// SolicitacoesHandler lists requests, newest first, optionally for one gvc_id
func (s Solicitacao) SolicitacoesHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if g := r.URL.Query().Get("gvc_id"); g != "" {
		filter["solicitacao.gvcID"] = g
	}
	opts := options.Find().SetSort(bson.D{{Key: "solicitacao.createdAt", Value: -1}})

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	sols, err := s.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get solicitacoes", http.StatusInternalServerError, w, err)
		return
	}
	if sols == nil {
		sols = []models.Solicitacao{}
	}
	writeJSON(w, http.StatusOK, sols)
}

// SolicitacaoByIDHandler returns a request given an id
func (s Solicitacao) SolicitacaoByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "solicitacao_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	sol, err := s.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get solicitacao by ID", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, sol)
}

// DeleteSolicitacaoHandler removes a request given an id
func (s Solicitacao) DeleteSolicitacaoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "solicitacao_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	deleted, err := s.DB.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to delete solicitacao", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("solicitacao not found", http.StatusNotFound, w, databases.ErrNoDocuments)
		return
	}
	publish(s.Live, "solicitacoes", models.OperacaoRemovido, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "solicitacao deleted successfully"})
}

// DeliverItemHandler flags a requested item as delivered. With cautelar set
// the item is also loaned to the gvc. The request is removed once every item
// has been delivered.
func (s Solicitacao) DeliverItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "solicitacao_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	var req entregaRequest
	if err := decodeBody(r, &req, true); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Condicao == "" {
		req.Condicao = models.CondicaoNovo
	}
	if req.Cautelar && !models.ValidCondicao(req.Condicao) {
		config.ErrorStatus("invalid condicao", http.StatusBadRequest, w, models.ErrInvalidCondicao)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	sol, err := s.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get solicitacao by ID", lookupStatus(err), w, err)
		return
	}

	at := nowDateTime()
	item, allDelivered, err := sol.Details.Deliver(mux.Vars(r)["item_id"], at)
	switch {
	case errors.Is(err, models.ErrRequestItemNotFound):
		config.ErrorStatus("failed to deliver item", http.StatusNotFound, w, err)
		return
	case errors.Is(err, models.ErrAlreadyDelivered):
		config.ErrorStatus("failed to deliver item", http.StatusConflict, w, err)
		return
	case err != nil:
		config.ErrorStatus("failed to deliver item", http.StatusInternalServerError, w, err)
		return
	}

	// the request is written first so a lost race never loans the item twice
	if allDelivered {
		deleted, err := s.DB.DeleteOne(ctx, bson.M{"_id": id, "__v": sol.Version})
		if err != nil {
			config.ErrorStatus("failed to delete solicitacao", http.StatusInternalServerError, w, err)
			return
		}
		if deleted == 0 {
			config.ErrorStatus("failed to delete solicitacao", http.StatusConflict, w, databases.ErrVersionConflict)
			return
		}
		publish(s.Live, "solicitacoes", models.OperacaoRemovido, id)
	} else {
		update := bson.M{
			"$set": bson.M{
				"solicitacao.itens":     sol.Details.Itens,
				"solicitacao.updatedAt": sol.Details.UpdatedAt,
			},
			"$inc": bson.M{"__v": 1},
		}
		res, err := s.DB.UpdateOne(ctx, bson.M{"_id": id, "__v": sol.Version}, update)
		if err != nil {
			config.ErrorStatus("failed to update solicitacao", http.StatusInternalServerError, w, err)
			return
		}
		if res.MatchedCount == 0 {
			config.ErrorStatus("failed to update solicitacao", http.StatusConflict, w, databases.ErrVersionConflict)
			return
		}
		sol.Version++
		publish(s.Live, "solicitacoes", models.OperacaoAtualizado, id)
	}

	resp := entregaResponse{Solicitacao: *sol, Item: item, Removida: allDelivered}

	// the delivery is stored from here on, so a failed loan is reported in
	// the response instead of failing the request
	if req.Cautelar {
		cautela, err := s.checkoutDelivered(ctx, sol.Details.GVCID, item, req.Condicao)
		if err != nil {
			logger(r).Errorw("item delivered but checkout failed",
				"solicitacaoID", id.Hex(), "itemID", item.ID, "error", err)
			resp.CautelaPendente = true
			resp.ErroCautela = err.Error()
		}
		resp.Cautela = cautela
	}

	recordHistorico(ctx, s.HDB, s.Live, models.HistoricoDetails{
		Tipo:      models.EventoSolicitacaoEntregue,
		Descricao: item.Item + " entregue a " + sol.Details.GVCNome,
		RefID:     id.Hex(),
		Usuario:   callerEmail(r),
		Data:      at,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s Solicitacao) checkoutDelivered(ctx context.Context, gvcHex string, item models.ItemSolicitado, condicao string) (*models.Cautela, error) {
	gvcID, err := primitive.ObjectIDFromHex(gvcHex)
	if err != nil {
		return nil, err
	}
	cautela, _, err := s.Cautela.checkout(ctx, gvcID, models.ItemCautelado{
		Item:     item.Item,
		Tamanho:  item.Tamanho,
		Condicao: condicao,
	})
	return cautela, err
}
