package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gestor-pos/gestor-pos/internal/catalog/clients"
	"github.com/gestor-pos/gestor-pos/internal/platform/httpx"
	"github.com/gestor-pos/gestor-pos/internal/sales/cart"
	shared "github.com/gestor-pos/gestor-pos/internal/sales/shared"
	sharedpkg "github.com/gestor-pos/gestor-pos/internal/shared"
)

// ClientPort resolves clients from the registry.
type ClientPort interface {
	Get(ctx context.Context, id int64) (*clients.Client, error)
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log sharedpkg.AuditLog) error
}

// Service finalizes carts into persisted sales.
type Service struct {
	repo    Repository
	clients ClientPort
	audit   AuditPort
	now     func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository, clientPort ClientPort, audit AuditPort) *Service {
	return &Service{repo: repo, clients: clientPort, audit: audit, now: time.Now}
}

// Finalize converts the session cart into a sale. The sale header, line
// items, stock decrements and payment schedule land in one transaction; on
// any failure nothing is committed and the cart stays untouched.
func (s *Service) Finalize(ctx context.Context, userID int64, c *cart.Cart, req CheckoutRequest) (*CheckoutResult, error) {
	if c == nil || c.Empty() {
		return nil, fmt.Errorf("%w: cart is empty", httpx.ErrValidation)
	}
	saleType := SaleType(req.SaleType)
	if !saleType.Valid() {
		return nil, fmt.Errorf("%w: unknown sale type %q", httpx.ErrValidation, req.SaleType)
	}
	if saleType == SaleTypeImmediate && !ValidMethod(req.Method) {
		return nil, fmt.Errorf("%w: immediate sales require a payment method", httpx.ErrValidation)
	}
	if saleType == SaleTypeInstallment && req.Installments < 2 {
		return nil, fmt.Errorf("%w: installment sales require at least 2 installments", httpx.ErrValidation)
	}

	if _, err := s.clients.Get(ctx, req.ClientID); err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %d: %w", httpx.ErrValidation, req.ClientID, err)
		}
		return nil, err
	}

	totalCents := c.TotalCents()
	total := shared.FromCents(totalCents)

	var change float64
	if saleType == SaleTypeImmediate && req.Method == MethodMoney {
		receivedCents := shared.Cents(req.ReceivedAmount)
		if receivedCents < totalCents {
			return nil, fmt.Errorf("%w: received amount %.2f below total %.2f", httpx.ErrValidation, req.ReceivedAmount, total)
		}
		change = shared.FromCents(receivedCents - totalCents)
	}

	now := s.now()
	schedule, err := BuildSchedule(ScheduleParams{
		Type:         saleType,
		TotalCents:   totalCents,
		Now:          now,
		Method:       req.Method,
		Installments: req.Installments,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	items := make([]ItemDraft, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, ItemDraft{
			ProductID:  line.ProductID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			PriceCents: shared.Cents(line.UnitPrice),
		})
	}

	detail, err := s.repo.FinalizeSale(ctx, SaleDraft{
		ClientID:   req.ClientID,
		UserID:     userID,
		TotalCents: totalCents,
		Type:       saleType,
		Items:      items,
		Payments:   schedule,
	})
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, sharedpkg.AuditLog{
			ActorID:  userID,
			Action:   "sale.finalized",
			Entity:   "sale",
			EntityID: strconv.FormatInt(detail.Sale.ID, 10),
			Meta: map[string]any{
				"sale_type": string(saleType),
				"total":     detail.Sale.TotalAmount,
				"items":     len(detail.Items),
				"payments":  len(detail.Payments),
			},
		})
	}

	return &CheckoutResult{
		Sale:     detail.Sale,
		Items:    detail.Items,
		Payments: detail.Payments,
		Change:   change,
	}, nil
}

// GetDetail returns a finalized sale with items and payments.
func (s *Service) GetDetail(ctx context.Context, id int64) (*SaleDetail, error) {
	return s.repo.GetDetail(ctx, id)
}
