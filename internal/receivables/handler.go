package receivables

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gestor-pos/gestor-pos/internal/auth"
	"github.com/gestor-pos/gestor-pos/internal/platform/httpx"
	sharedpkg "github.com/gestor-pos/gestor-pos/internal/shared"
)

// Handler exposes the receivables ledger endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	authz    auth.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authz auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz, validate: validator.New()}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireUser)
		r.Get("/", h.list)
		r.Get("/summary", h.summary)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCapability(sharedpkg.CapReceive))
		r.Post("/{paymentID}/pay", h.markPaid)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ListRequest{
		Status:    q.Get("status"),
		DuePrefix: q.Get("due"),
	}
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil {
			req.Limit = int32(v)
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil {
			req.Offset = int32(v)
		}
	}

	entries, err := h.service.List(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payments": entries})
}

type markPaidRequest struct {
	Method string `json:"payment_method" validate:"required,oneof=pix money credit debit"`
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "paymentID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid payment id", httpx.ErrValidation))
		return
	}
	var req markPaidRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	user := auth.UserFromContext(r.Context())
	if user == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if err := h.service.MarkPaid(r.Context(), id, req.Method, user.ID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("payment settled", "payment_id", id, "method", req.Method, "user_id", user.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "status": "paid"})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summarize(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
