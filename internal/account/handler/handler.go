// Package handler wires the account operations to HTTP. It stays thin:
// decode, delegate, encode.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/account"
	"rollcall/internal/account/service"
	"rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
)

// Service defines the account operations the handler exposes.
type Service interface {
	Register(ctx context.Context, in service.RegisterInput) (domain.AccountID, error)
	GetDetail(ctx context.Context, id domain.AccountID) (account.DetailView, error)
}

// Handler wires account endpoints to the account service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an account handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts account endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/accounts", h.HandleRegister)
	r.Get("/accounts/{uid}", h.HandleGetDetail)
}

type registerRequest struct {
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
}

type registerResponse struct {
	UID string `json:"uid"`
}

type detailResponse struct {
	UID       string `json:"uid"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
}

// HandleRegister handles POST /accounts requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	id, err := h.service.Register(ctx, service.RegisterInput{
		Nickname:  req.Nickname,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "register failed", "error", err.Error())
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, registerResponse{UID: id.String()})
}

// HandleGetDetail handles GET /accounts/{uid} requests.
func (h *Handler) HandleGetDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseAccountID(chi.URLParam(r, "uid"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.GetDetail(ctx, id)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "detail query failed", "account_uid", id.String(), "error", err.Error())
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, detailResponse{
		UID:       view.ID.String(),
		Nickname:  view.Nickname.String(),
		Email:     view.Email.String(),
		FirstName: view.FirstName.String(),
		LastName:  view.LastName.String(),
		BirthDate: view.BirthDate.String(),
	})
}
