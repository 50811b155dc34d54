// Package docs Ultimate Praia API.
//
// Documentation of the Ultimate Praia lifeguard station API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/BrenoBalsini/ultimate-praia-sub000/catalog"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
	"github.com/BrenoBalsini/ultimate-praia-sub000/status"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/gvcs gvc gvcList
// Lists the lifeguards ordered by position.
// responses:
//   200: gvcListResponse
//   401: errorResponse

// Shows every GVC
// swagger:response gvcListResponse
type gvcListResponseWrapper struct {
	// in:body
	Body []models.GVC
}

// swagger:route GET /api/v1/cautela/gvc/{gvc_id} cautela cautelaByGVC
// Gets the equipment loaned to a single GVC.
// responses:
//   200: cautelaResponse
//   404: errorResponse

// Shows a single cautela with its items and their history
// swagger:response cautelaResponse
type cautelaResponseWrapper struct {
	// in:body
	Body models.Cautela
}

// swagger:route GET /api/v1/solicitacoes solicitacao solicitacaoList
// Lists the open requests, newest first.
// responses:
//   200: solicitacaoListResponse

// Shows the open solicitacoes
// swagger:response solicitacaoListResponse
type solicitacaoListResponseWrapper struct {
	// in:body
	Body []models.Solicitacao
}

// swagger:route GET /api/v1/faltas falta faltaList
// Lists shortages, filtered by posto and resolvida.
// responses:
//   200: faltaListResponse
//   400: errorResponse

// Shows the faltas matching the filter
// swagger:response faltaListResponse
type faltaListResponseWrapper struct {
	// in:body
	Body []models.Falta
}

// swagger:route GET /api/v1/alteracoes alteracao alteracaoList
// Lists the structural issues reported per post.
// responses:
//   200: alteracaoListResponse

// Shows the alteracoes matching the filter
// swagger:response alteracaoListResponse
type alteracaoListResponseWrapper struct {
	// in:body
	Body []models.AlteracaoPosto
}

// swagger:route GET /api/v1/condutas conduta condutaList
// Lists conduct records, newest first.
// responses:
//   200: condutaListResponse

// Shows the condutas matching the filter
// swagger:response condutaListResponse
type condutaListResponseWrapper struct {
	// in:body
	Body []models.Conduta
}

// swagger:route GET /api/v1/historico historico historicoList
// Pages through the event log.
// responses:
//   200: historicoListResponse

// Shows a page of historico events
// swagger:response historicoListResponse
type historicoListResponseWrapper struct {
	// in:body
	Body []models.Historico
}

// swagger:route GET /api/v1/postos/status postos postosStatus
// Aggregates equipment status and open tickets for every post.
// responses:
//   200: postosStatusResponse

// Shows one summary per post
// swagger:response postosStatusResponse
type postosStatusResponseWrapper struct {
	// in:body
	Body []status.PostSummary
}

// swagger:route GET /api/v1/catalogo postos catalogo
// Lists the posts, material categories and unit-tracked equipment.
// responses:
//   200: catalogoResponse

// Shows the catalog
// swagger:response catalogoResponse
type catalogoResponseWrapper struct {
	// in:body
	Body catalog.Catalog
}

// Error envelope returned by every failing route
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}
