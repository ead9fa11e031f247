package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestor-pos/gestor-pos/internal/platform/db"
	"github.com/gestor-pos/gestor-pos/internal/platform/httpx"
	shared "github.com/gestor-pos/gestor-pos/internal/sales/shared"
)

// ItemDraft is a sale line pending persistence.
type ItemDraft struct {
	ProductID  int64
	Name       string
	Quantity   int
	PriceCents int64
}

// SaleDraft is a fully validated sale pending persistence.
type SaleDraft struct {
	ClientID   int64
	UserID     int64
	TotalCents int64
	Type       SaleType
	Items      []ItemDraft
	Payments   []PaymentDraft
}

// Repository persists finalized sales.
type Repository interface {
	FinalizeSale(ctx context.Context, draft SaleDraft) (*SaleDetail, error)
	GetDetail(ctx context.Context, id int64) (*SaleDetail, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the Postgres-backed sale repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// FinalizeSale commits the sale header, line items, stock decrements and
// payment schedule in a single repeatable-read transaction. Serialization
// conflicts are retried; any other failure rolls everything back.
func (r *repository) FinalizeSale(ctx context.Context, draft SaleDraft) (*SaleDetail, error) {
	var detail *SaleDetail
	err := db.WithTxRetry(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		detail, err = insertSale(ctx, tx, draft)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func insertSale(ctx context.Context, tx pgx.Tx, draft SaleDraft) (*SaleDetail, error) {
	var sale Sale
	sale.ClientID = draft.ClientID
	sale.UserID = draft.UserID
	sale.TotalAmount = shared.FromCents(draft.TotalCents)
	sale.SaleType = draft.Type

	err := tx.QueryRow(ctx, `
		INSERT INTO sales (client_id, user_id, total_amount, sale_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		draft.ClientID, draft.UserID, sale.TotalAmount, string(draft.Type),
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("checkout: insert sale: %w", err)
	}

	items := make([]SaleItem, 0, len(draft.Items))
	for _, it := range draft.Items {
		item := SaleItem{
			SaleID:    sale.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     shared.FromCents(it.PriceCents),
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO sale_items (sale_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			sale.ID, it.ProductID, it.Quantity, item.Price,
		).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("checkout: insert sale item: %w", err)
		}

		// Atomic decrement; no read-modify-write window.
		tag, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1`,
			it.ProductID, it.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("checkout: decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("%w: product %d no longer exists", httpx.ErrConflict, it.ProductID)
		}
		items = append(items, item)
	}

	payments := make([]Payment, 0, len(draft.Payments))
	for _, p := range draft.Payments {
		payment := Payment{
			SaleID:            sale.ID,
			Amount:            shared.FromCents(p.AmountCents),
			DueDate:           p.DueDate,
			PayDate:           p.PaidAt,
			Status:            p.Status,
			Method:            p.Method,
			InstallmentNumber: p.InstallmentNumber,
			TotalInstallments: p.TotalInstallments,
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO payments (sale_id, amount, due_date, pay_date, status, payment_method, installment_number, total_installments)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			sale.ID, payment.Amount, payment.DueDate, payment.PayDate,
			string(payment.Status), payment.Method,
			payment.InstallmentNumber, payment.TotalInstallments,
		).Scan(&payment.ID)
		if err != nil {
			return nil, fmt.Errorf("checkout: insert payment: %w", err)
		}
		payments = append(payments, payment)
	}

	return &SaleDetail{Sale: sale, Items: items, Payments: payments}, nil
}

// GetDetail loads a sale with items, payments and the client display name.
func (r *repository) GetDetail(ctx context.Context, id int64) (*SaleDetail, error) {
	var detail SaleDetail
	err := r.pool.QueryRow(ctx, `
		SELECT s.id, s.client_id, s.user_id, s.total_amount, s.sale_type, s.created_at, c.name
		FROM sales s
		LEFT JOIN clients c ON c.id = s.client_id
		WHERE s.id = $1`, id,
	).Scan(
		&detail.Sale.ID, &detail.Sale.ClientID, &detail.Sale.UserID,
		&detail.Sale.TotalAmount, &detail.Sale.SaleType, &detail.Sale.CreatedAt,
		&detail.ClientName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: sale %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("checkout: get sale: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.sale_id, i.product_id, COALESCE(p.name, ''), i.quantity, i.price
		FROM sale_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = $1
		ORDER BY i.id`, id)
	if err != nil {
		return nil, fmt.Errorf("checkout: list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("checkout: scan sale item: %w", err)
		}
		detail.Items = append(detail.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checkout: iterate sale items: %w", err)
	}

	prows, err := r.pool.Query(ctx, `
		SELECT id, sale_id, amount, due_date, pay_date, status, payment_method, installment_number, total_installments
		FROM payments
		WHERE sale_id = $1
		ORDER BY installment_number`, id)
	if err != nil {
		return nil, fmt.Errorf("checkout: list payments: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var p Payment
		if err := prows.Scan(&p.ID, &p.SaleID, &p.Amount, &p.DueDate, &p.PayDate, &p.Status, &p.Method, &p.InstallmentNumber, &p.TotalInstallments); err != nil {
			return nil, fmt.Errorf("checkout: scan payment: %w", err)
		}
		detail.Payments = append(detail.Payments, p)
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("checkout: iterate payments: %w", err)
	}

	return &detail, nil
}
