package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	"github.com/BrenoBalsini/ultimate-praia-sub000/logging"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// Publisher receives a change event after every successful write
type Publisher interface {
	Publish(models.ChangeEvent)
}

// now is swapped in tests
var now = time.Now

func nowDateTime() primitive.DateTime {
	return primitive.NewDateTimeFromTime(now())
}

// writeJSON marshals v and writes it with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// decodeBody decodes the request body into v. An empty body is accepted when
// optional is set.
func decodeBody(r *http.Request, v interface{}, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return io.EOF
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// pathObjectID reads an ObjectID route variable
func pathObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)[name])
}

// callerEmail returns the signed in user's email, empty when anonymous
func callerEmail(r *http.Request) string {
	id, ok := api.IdentityFromContext(r.Context())
	if !ok {
		return ""
	}
	return id.Email
}

// lookupStatus maps a store lookup error to 404 or 500
func lookupStatus(err error) int {
	if databases.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func publish(p Publisher, colecao, operacao string, id primitive.ObjectID) {
	if p == nil {
		return
	}
	p.Publish(models.ChangeEvent{
		Colecao:  colecao,
		Operacao: operacao,
		ID:       id.Hex(),
		Data:     now().UTC(),
	})
}

// recordHistorico appends a server side event. The primary write already
// succeeded, so a failure here is logged and not returned to the client.
func recordHistorico(ctx context.Context, db databases.HistoricoDatabase, p Publisher, d models.HistoricoDetails) {
	if db == nil {
		return
	}
	if d.Data == 0 {
		d.Data = nowDateTime()
	}
	h := models.Historico{ID: primitive.NewObjectID(), Details: d}
	if _, err := db.InsertOne(ctx, h); err != nil {
		logging.FromContext(ctx).Errorw("failed to append historico",
			"tipo", d.Tipo,
			"refID", d.RefID,
			"error", err)
		return
	}
	publish(p, "historico", models.OperacaoCriado, h.ID)
}

func logger(r *http.Request) *zap.SugaredLogger {
	return logging.FromContext(r.Context())
}
