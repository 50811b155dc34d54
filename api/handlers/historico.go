package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
	"github.com/BrenoBalsini/ultimate-praia-sub000/catalog"
	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// Historico struct mostly used for mocking tests
type Historico struct {
	DB      databases.HistoricoDatabase
	Catalog *catalog.Catalog
	Live    Publisher
}

// CreateHistoricoHandler appends an equipment unit event. Ticket and request
// events are written by the server only.
func (h Historico) CreateHistoricoHandler(w http.ResponseWriter, r *http.Request) {
	var details models.HistoricoDetails
	if err := decodeBody(r, &details, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := h.validate(&details); err != nil {
		config.ErrorStatus("invalid historico", http.StatusBadRequest, w, err)
		return
	}
	details.Usuario = callerEmail(r)
	if details.Data == 0 {
		details.Data = nowDateTime()
	}

	event := models.Historico{ID: primitive.NewObjectID(), Details: details}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if _, err := h.DB.InsertOne(ctx, event); err != nil {
		config.ErrorStatus("failed to create historico", http.StatusInternalServerError, w, err)
		return
	}
	publish(h.Live, "historico", models.OperacaoCriado, event.ID)
	writeJSON(w, http.StatusCreated, event)
}

func (h Historico) validate(d *models.HistoricoDetails) error {
	if !models.IsEquipmentEvent(d.Tipo) {
		return fmt.Errorf("tipo %q cannot be recorded directly", d.Tipo)
	}
	if !h.Catalog.HasPosto(d.Posto) {
		return fmt.Errorf("unknown posto %d", d.Posto)
	}
	d.Material = strings.TrimSpace(d.Material)
	if !h.Catalog.IsEquipamento(d.Material) {
		return fmt.Errorf("material %q is not tracked by unit", d.Material)
	}
	d.Unidade = strings.TrimSpace(d.Unidade)
	if d.Unidade == "" {
		return errors.New("unidade is required")
	}
	if d.Tipo == models.EventoRetirada && d.Status == "" {
		d.Status = models.StatusAusente
	}
	if !models.ValidStatus(d.Status) {
		return errors.New("status must be ok, avaria, quebrado or ausente")
	}
	return nil
}

// HistoricoHandler lists events filtered by posto, material and tipo. Order
// defaults to newest first.
func (h Historico) HistoricoHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := bson.M{}
	if p := q.Get("posto"); p != "" {
		posto, err := strconv.Atoi(p)
		if err != nil {
			config.ErrorStatus("invalid query", http.StatusBadRequest, w, err)
			return
		}
		filter["historico.posto"] = posto
	}
	if m := q.Get("material"); m != "" {
		filter["historico.material"] = m
	}
	if t := q.Get("tipo"); t != "" {
		filter["historico.tipo"] = t
	}

	direction := -1
	switch q.Get("order") {
	case "", "desc":
	case "asc":
		direction = 1
	default:
		config.ErrorStatus("invalid query", http.StatusBadRequest, w, errors.New("order must be asc or desc"))
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	page, _ := strconv.Atoi(q.Get("page"))
	opts := databases.PageOptions(limit, page).SetSort(bson.D{{Key: "historico.data", Value: direction}})

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	events, err := h.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get historico", http.StatusInternalServerError, w, err)
		return
	}
	if events == nil {
		events = []models.Historico{}
	}
	writeJSON(w, http.StatusOK, events)
}
