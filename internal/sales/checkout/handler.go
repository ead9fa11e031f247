package checkout

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gestor-pos/gestor-pos/internal/auth"
	"github.com/gestor-pos/gestor-pos/internal/platform/httpx"
	"github.com/gestor-pos/gestor-pos/internal/sales/cart"
	sharedpkg "github.com/gestor-pos/gestor-pos/internal/shared"
	"github.com/gestor-pos/gestor-pos/report"
)

// Handler exposes sale finalization and lookup endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	carts    *cart.Store
	exporter *report.Exporter
	authz    auth.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, carts *cart.Store, exporter *report.Exporter, authz auth.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		carts:    carts,
		exporter: exporter,
		authz:    authz,
		validate: validator.New(),
	}
}

// MountRoutes registers sale routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCapability(sharedpkg.CapSell))
		r.Post("/checkout", h.finalize)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireUser)
		r.Get("/{saleID}", h.detail)
		r.Get("/{saleID}/receipt", h.receipt)
	})
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	user := auth.UserFromContext(r.Context())
	sess := sharedpkg.SessionFromContext(r.Context())
	if user == nil || sess == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	c, err := h.carts.Get(r.Context(), sess.ID)
	if err != nil {
		h.logger.Error("cart load failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "could not load cart")
		return
	}

	result, err := h.service.Finalize(r.Context(), user.ID, c, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	if err := h.carts.Clear(r.Context(), sess.ID); err != nil {
		h.logger.Error("cart clear failed", "sale_id", result.Sale.ID, "error", err)
	}

	h.logger.Info("sale finalized",
		"sale_id", result.Sale.ID,
		"sale_type", result.Sale.SaleType,
		"total", result.Sale.TotalAmount,
		"user_id", user.ID,
	)
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "saleID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid sale id", httpx.ErrValidation))
		return
	}
	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

// receipt renders the sale receipt as PDF. For cash sales the caller may
// pass ?received= to have the change printed; it is not stored.
func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "saleID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid sale id", httpx.ErrValidation))
		return
	}
	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	rc := buildReceipt(detail)
	if raw := r.URL.Query().Get("received"); raw != "" {
		received, err := strconv.ParseFloat(raw, 64)
		if err != nil || received < detail.Sale.TotalAmount {
			httpx.RespondError(w, fmt.Errorf("%w: invalid received amount", httpx.ErrValidation))
			return
		}
		rc.Received = received
		rc.Change = received - detail.Sale.TotalAmount
	}

	pdf, err := h.exporter.RenderReceipt(r.Context(), rc)
	if err != nil {
		h.logger.Error("receipt render failed", "sale_id", id, "error", err)
		httpx.Problem(w, http.StatusBadGateway, "Render Failed", "could not render receipt")
		return
	}
	httpx.File(w, "application/pdf", fmt.Sprintf("cupom_%d.pdf", id), pdf)
}

func buildReceipt(detail *SaleDetail) report.Receipt {
	clientName := "Cliente Removido"
	if detail.ClientName != nil && *detail.ClientName != "" {
		clientName = *detail.ClientName
	}
	rc := report.Receipt{
		SaleID:     detail.Sale.ID,
		ClientName: clientName,
		IssuedAt:   detail.Sale.CreatedAt,
		SaleType:   string(detail.Sale.SaleType),
		Total:      detail.Sale.TotalAmount,
	}
	for _, item := range detail.Items {
		rc.Lines = append(rc.Lines, report.ReceiptLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Total:     item.Price * float64(item.Quantity),
		})
	}
	for _, p := range detail.Payments {
		if p.Method != nil {
			rc.Method = *p.Method
			break
		}
	}
	return rc
}
