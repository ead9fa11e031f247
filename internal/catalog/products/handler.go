package products

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gestor-pos/gestor-pos/internal/auth"
	"github.com/gestor-pos/gestor-pos/internal/platform/httpx"
	"github.com/gestor-pos/gestor-pos/internal/shared"
	"github.com/gestor-pos/gestor-pos/report"
)

// Handler manages product catalog endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	exporter  *report.Exporter
	authz     auth.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, exporter *report.Exporter, authz auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, exporter: exporter, authz: authz, validator: validator.New()}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireUser)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/export/csv", h.exportCSV)
		r.Get("/export/pdf", h.exportPDF)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCapability(shared.CapManageProducts))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), ListProductsRequest{
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Product{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}
	product, err := h.service.Create(r.Context(), req, actorID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}
	product, err := h.service.Update(r.Context(), id, req, actorID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id, actorID(r)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	table, err := h.buildTable(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.exporter.WriteCSV(w, "produtos.csv", table); err != nil {
		h.logger.Error("export products csv", slog.Any("error", err))
	}
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	table, err := h.buildTable(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	pdf, err := h.exporter.RenderPDF(r.Context(), table)
	if err != nil {
		h.logger.Error("export products pdf", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.File(w, "application/pdf", "estoque_produtos.pdf", pdf)
}

func (h *Handler) buildTable(r *http.Request) (report.Table, error) {
	list, err := h.service.List(r.Context(), ListProductsRequest{})
	if err != nil {
		return report.Table{}, err
	}
	table := report.Table{
		Title:  "Relatório de Estoque e Produtos",
		Header: []string{"Código", "Nome", "Categoria", "Preço", "Estoque"},
	}
	for _, p := range list {
		table.Rows = append(table.Rows, []string{
			p.Code,
			p.Name,
			p.Category,
			report.FormatBRL(p.Price),
			strconv.FormatFloat(p.Stock, 'f', -1, 64) + " " + p.Unit,
		})
	}
	return table, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.RespondError(w, err)
}

func actorID(r *http.Request) int64 {
	if user := auth.UserFromContext(r.Context()); user != nil {
		return user.ID
	}
	return 0
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", httpx.ErrValidation)
	}
	return id, nil
}
