package cart

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gestor-pos/gestor-pos/internal/auth"
	"github.com/gestor-pos/gestor-pos/internal/catalog/products"
	"github.com/gestor-pos/gestor-pos/internal/platform/httpx"
	sharedpkg "github.com/gestor-pos/gestor-pos/internal/shared"
)

// Handler manages cart endpoints for the signed-in session.
type Handler struct {
	logger   *slog.Logger
	store    *Store
	products *products.Service
	authz    auth.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, store *Store, productSvc *products.Service, authz auth.Middleware) *Handler {
	return &Handler{logger: logger, store: store, products: productSvc, authz: authz}
}

// MountRoutes registers cart routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCapability(sharedpkg.CapSell))
		r.Get("/", h.show)
		r.Post("/lines", h.addLine)
		r.Put("/lines/{productID}", h.setQuantity)
		r.Delete("/lines/{productID}", h.removeLine)
		r.Delete("/", h.clear)
	})
}

type cartView struct {
	Lines []Line  `json:"lines"`
	Total float64 `json:"total"`
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	h.respond(w, c)
}

type addLineRequest struct {
	ProductID int64 `json:"product_id"`
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if req.ProductID <= 0 {
		httpx.RespondError(w, fmt.Errorf("%w: product_id required", httpx.ErrValidation))
		return
	}

	product, err := h.products.Get(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		httpx.RespondError(w, err)
		return
	}

	c, ok := h.load(w, r)
	if !ok {
		return
	}
	c.AddLine(Line{
		ProductID: product.ID,
		Code:      product.Code,
		Name:      product.Name,
		Unit:      product.Unit,
		UnitPrice: product.Price,
	})
	h.save(w, r, c)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		httpx.RespondError(w, fmt.Errorf("%w: invalid product id", httpx.ErrValidation))
		return
	}
	var req setQuantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if req.Quantity < 1 {
		httpx.RespondError(w, fmt.Errorf("%w: quantity must be at least 1", httpx.ErrValidation))
		return
	}

	c, ok := h.load(w, r)
	if !ok {
		return
	}
	if !c.SetQuantity(productID, req.Quantity) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	h.save(w, r, c)
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		httpx.RespondError(w, fmt.Errorf("%w: invalid product id", httpx.ErrValidation))
		return
	}
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	c.RemoveLine(productID)
	h.save(w, r, c)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	sess := sharedpkg.SessionFromContext(r.Context())
	if err := h.store.Clear(r.Context(), sess.ID); err != nil {
		h.logger.Error("clear cart", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, &Cart{})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Cart, bool) {
	sess := sharedpkg.SessionFromContext(r.Context())
	c, err := h.store.Get(r.Context(), sess.ID)
	if err != nil {
		h.logger.Error("load cart", slog.Any("error", err))
		httpx.RespondError(w, err)
		return nil, false
	}
	return c, true
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, c *Cart) {
	sess := sharedpkg.SessionFromContext(r.Context())
	if err := h.store.Save(r.Context(), sess.ID, c); err != nil {
		h.logger.Error("save cart", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, c)
}

func (h *Handler) respond(w http.ResponseWriter, c *Cart) {
	lines := c.Lines
	if lines == nil {
		lines = []Line{}
	}
	httpx.JSON(w, http.StatusOK, cartView{Lines: lines, Total: c.Total()})
}
