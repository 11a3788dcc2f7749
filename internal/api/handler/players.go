package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battingstats/internal/api/middleware"
	"github.com/mcoot/battingstats/internal/api/request"
	"github.com/mcoot/battingstats/internal/api/response"
	"github.com/mcoot/battingstats/internal/metrics"
	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/services/players"
)

// Mutation names used as metric labels
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// PlayersHandler handles the player record endpoints. Every mutation
// responds with the caller's full listing.
type PlayersHandler struct {
	players *players.Service
	metrics *metrics.Manager
	logger  *slog.Logger
}

// NewPlayersHandler creates a new players handler
func NewPlayersHandler(players *players.Service, metrics *metrics.Manager, logger *slog.Logger) *PlayersHandler {
	return &PlayersHandler{
		players: players,
		metrics: metrics,
		logger:  logger,
	}
}

// List handles GET /players
func (h *PlayersHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	records, err := h.players.List(r.Context(), identity.AccountID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Listing(records))
}

// Create handles POST /players
func (h *PlayersHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.PlayerRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		h.metrics.RecordPlayerMutation(opCreate, metrics.ResultInvalid)
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.players.Create(r.Context(), identity.AccountID, req.Draft())
	h.record(opCreate, err)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Listing(result.Listing))
}

// Update handles PUT /players/{id}
func (h *PlayersHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id := model.PlayerRecordID(mux.Vars(r)["id"])

	var req request.PlayerRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		h.metrics.RecordPlayerMutation(opUpdate, metrics.ResultInvalid)
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.players.Update(r.Context(), identity.AccountID, id, req.Draft())
	if err == nil && result.Record == nil {
		h.metrics.RecordPlayerMutation(opUpdate, metrics.ResultMissing)
	} else {
		h.record(opUpdate, err)
	}
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Listing(result.Listing))
}

// Delete handles DELETE /players/{id}
func (h *PlayersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id := model.PlayerRecordID(mux.Vars(r)["id"])

	listing, err := h.players.Delete(r.Context(), identity.AccountID, id)
	h.record(opDelete, err)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Listing(listing))
}

func (h *PlayersHandler) record(op string, err error) {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case errors.Is(err, model.ErrValidation):
		result = metrics.ResultInvalid
	case errors.Is(err, model.ErrPlayerNotFound):
		result = metrics.ResultMissing
	default:
		result = metrics.ResultError
	}
	h.metrics.RecordPlayerMutation(op, result)
}
