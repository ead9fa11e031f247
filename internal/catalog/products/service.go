package products

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gestor-pos/gestor-pos/internal/shared"
)

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles product catalog logic.
type Service struct {
	repo  Repository
	audit AuditPort
}

// NewService builds a Service instance.
func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns products whose name or code matches the search text.
func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, error) {
	req.Search = strings.TrimSpace(req.Search)
	return s.repo.List(ctx, req)
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a product to the catalog. Codes are operator-assigned and not
// required to be unique.
func (s *Service) Create(ctx context.Context, req CreateProductRequest, actorID int64) (*Product, error) {
	unit := req.Unit
	if unit == "" {
		unit = "un"
	}
	id, err := s.repo.Create(ctx, Product{
		Code:     strings.TrimSpace(req.Code),
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Category: req.Category,
		Unit:     unit,
		Stock:    req.Stock,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.record(ctx, actorID, "create", id)
	return s.repo.Get(ctx, id)
}

// Update edits a product. Stock edits here are manual adjustments; sale
// decrements go through checkout.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest, actorID int64) (*Product, error) {
	updates := make(map[string]any)
	if req.Code != nil {
		updates["code"] = strings.TrimSpace(*req.Code)
	}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
		s.record(ctx, actorID, "update", id)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", id)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "product",
		EntityID: strconv.FormatInt(id, 10),
	})
}
