// Package handler is the thin HTTP layer over the consensus engine. It
// resolves the caller identity from the request context, delegates to the
// service, and translates domain errors into JSON envelopes; no business
// logic lives here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vouchnet/internal/platform/middleware"
	"vouchnet/internal/registry/models"
	"vouchnet/internal/registry/service"
	id "vouchnet/pkg/domain"
	dErrors "vouchnet/pkg/domain-errors"
	"vouchnet/pkg/requestcontext"
)

// Service is the consensus engine surface the handler depends on.
type Service interface {
	AddBank(ctx context.Context, caller, bankID id.BankID, name string, regNumber id.RegistrationNumber) (*models.Bank, error)
	RemoveBank(ctx context.Context, caller, bankID id.BankID) error
	SetVotingPermission(ctx context.Context, caller, bankID id.BankID, allowed bool) (*models.Bank, error)
	ReportSuspicion(ctx context.Context, caller, target id.BankID) (*models.Bank, error)
	GetBank(ctx context.Context, bankID id.BankID) (*models.Bank, error)
	ListBanks(ctx context.Context) ([]models.Bank, error)

	AddCustomer(ctx context.Context, caller id.BankID, username id.Username, data string) (*models.Customer, error)
	RemoveCustomer(ctx context.Context, caller id.BankID, username id.Username) error
	ModifyCustomer(ctx context.Context, caller id.BankID, username id.Username, newData string) (*models.Customer, error)
	ViewCustomer(ctx context.Context, username id.Username) (service.CustomerView, error)
	GetStatus(ctx context.Context, username id.Username) (bool, error)

	SubmitRequest(ctx context.Context, caller id.BankID, username id.Username, data string) (*models.KYCRequest, error)
	WithdrawRequest(ctx context.Context, caller id.BankID, username id.Username) error

	CastVote(ctx context.Context, caller id.BankID, username id.Username, direction models.VoteDirection) (*models.Customer, error)
}

// Handler wires registry HTTP endpoints to the consensus engine.
type Handler struct {
	registry       Service
	logger         *slog.Logger
	adminToken     string
	adminIdentity  id.BankID
	tokenValidator middleware.TokenValidator
}

// New creates the registry HTTP handler.
func New(registry Service, logger *slog.Logger, adminToken string, adminIdentity id.BankID, tokenValidator middleware.TokenValidator) *Handler {
	return &Handler{
		registry:       registry,
		logger:         logger,
		adminToken:     adminToken,
		adminIdentity:  adminIdentity,
		tokenValidator: tokenValidator,
	}
}

// Register mounts the registry routes on the given router.
func (h *Handler) Register(r chi.Router) {
	admin := chi.NewRouter()
	admin.Use(middleware.RequireAdminToken(h.adminToken, h.adminIdentity, h.logger))
	admin.Post("/banks", h.handleAddBank)
	admin.Get("/banks", h.handleListBanks)
	admin.Get("/banks/{bankID}", h.handleGetBank)
	admin.Delete("/banks/{bankID}", h.handleRemoveBank)
	admin.Put("/banks/{bankID}/voting", h.handleSetVoting)
	r.Mount("/admin", admin)

	bank := chi.NewRouter()
	bank.Use(middleware.RequireBank(h.tokenValidator, h.logger))
	bank.Post("/banks/{bankID}/suspicion", h.handleReportSuspicion)
	bank.Post("/customers", h.handleAddCustomer)
	bank.Delete("/customers/{username}", h.handleRemoveCustomer)
	bank.Put("/customers/{username}", h.handleModifyCustomer)
	bank.Get("/customers/{username}", h.handleViewCustomer)
	bank.Get("/customers/{username}/status", h.handleGetStatus)
	bank.Post("/customers/{username}/requests", h.handleSubmitRequest)
	bank.Delete("/customers/{username}/requests", h.handleWithdrawRequest)
	bank.Post("/customers/{username}/votes", h.handleCastVote)
	r.Mount("/", bank)
}

func (h *Handler) handleAddBank(w http.ResponseWriter, r *http.Request) {
	var req createBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	bankID, err := id.ParseBankID(req.BankID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	regNumber, err := id.ParseRegistrationNumber(req.RegistrationNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	bank, err := h.registry.AddBank(r.Context(), requestcontext.CallerBank(r.Context()), bankID, req.Name, regNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, bank)
}

func (h *Handler) handleRemoveBank(w http.ResponseWriter, r *http.Request) {
	bankID, err := id.ParseBankID(chi.URLParam(r, "bankID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.registry.RemoveBank(r.Context(), requestcontext.CallerBank(r.Context()), bankID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetVoting(w http.ResponseWriter, r *http.Request) {
	bankID, err := id.ParseBankID(chi.URLParam(r, "bankID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req setVotingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	bank, err := h.registry.SetVotingPermission(r.Context(), requestcontext.CallerBank(r.Context()), bankID, req.Allowed)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bank)
}

func (h *Handler) handleGetBank(w http.ResponseWriter, r *http.Request) {
	bankID, err := id.ParseBankID(chi.URLParam(r, "bankID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	bank, err := h.registry.GetBank(r.Context(), bankID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bank)
}

func (h *Handler) handleListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.registry.ListBanks(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, banks)
}

func (h *Handler) handleReportSuspicion(w http.ResponseWriter, r *http.Request) {
	target, err := id.ParseBankID(chi.URLParam(r, "bankID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	bank, err := h.registry.ReportSuspicion(r.Context(), requestcontext.CallerBank(r.Context()), target)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bank)
}

func (h *Handler) handleAddCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	username, err := id.ParseUsername(req.Username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	customer, err := h.registry.AddCustomer(r.Context(), requestcontext.CallerBank(r.Context()), username, req.Data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, customer)
}

func (h *Handler) handleRemoveCustomer(w http.ResponseWriter, r *http.Request) {
	username, err := id.ParseUsername(chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.registry.RemoveCustomer(r.Context(), requestcontext.CallerBank(r.Context()), username); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleModifyCustomer(w http.ResponseWriter, r *http.Request) {
	username, err := id.ParseUsername(chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req modifyCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	customer, err := h.registry.ModifyCustomer(r.Context(), requestcontext.CallerBank(r.Context()), username, req.Data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) handleViewCustomer(w http.ResponseWriter, r *http.Request) {
	username, err := id.ParseUsername(chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.registry.ViewCustomer(r.Context(), username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	username, err := id.ParseUsername(chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	approved, err := h.registry.GetStatus(r.Context(), username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, statusResponse{Approved: approved})
}

func (h *Handler) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	username, err := id.ParseUsername(chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req createKYCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	request, err := h.registry.SubmitRequest(r.Context(), requestcontext.CallerBank(r.Context()), username, req.Data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, request)
}

func (h *Handler) handleWithdrawRequest(w http.ResponseWriter, r *http.Request) {
	username, err := id.ParseUsername(chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.registry.WithdrawRequest(r.Context(), requestcontext.CallerBank(r.Context()), username); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCastVote(w http.ResponseWriter, r *http.Request) {
	username, err := id.ParseUsername(chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	direction, err := models.ParseVoteDirection(req.Direction)
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "direction must be \"up\" or \"down\""))
		return
	}

	customer, err := h.registry.CastVote(r.Context(), requestcontext.CallerBank(r.Context()), username, direction)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError centralizes domain error translation so every endpoint returns
// the same JSON error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": string(code)})
}
