package receivables

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed access to the payment ledger.
type Repository interface {
	List(ctx context.Context, req ListRequest) ([]Entry, error)
	MarkPaid(ctx context.Context, id int64, method string, paidAt time.Time) (bool, error)
	Status(ctx context.Context, id int64) (string, error)
	Summarize(ctx context.Context) (*Summary, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Entry, error) {
	query := `
		SELECT p.id, p.sale_id, c.name, s.sale_type, p.amount, p.due_date,
		       p.pay_date, p.status, p.payment_method,
		       p.installment_number, p.total_installments
		FROM payments p
		JOIN sales s ON s.id = p.sale_id
		LEFT JOIN clients c ON c.id = s.client_id`
	args := []any{}
	argNum := 1
	where := ""

	if req.Status != "" {
		where += fmt.Sprintf(" AND p.status = $%d", argNum)
		args = append(args, req.Status)
		argNum++
	}
	if req.DuePrefix != "" {
		where += fmt.Sprintf(" AND p.due_date::text LIKE $%d", argNum)
		args = append(args, req.DuePrefix+"%")
		argNum++
	}
	if where != "" {
		query += " WHERE" + where[4:]
	}
	query += " ORDER BY p.due_date, p.id"
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, req.Limit)
		argNum++
	}
	if req.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SaleID, &e.ClientName, &e.SaleType, &e.Amount,
			&e.DueDate, &e.PayDate, &e.Status, &e.Method,
			&e.InstallmentNumber, &e.TotalInstallments); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkPaid settles a pending payment. The status predicate makes the
// transition idempotence-safe: a second call matches zero rows.
func (r *repository) MarkPaid(ctx context.Context, id int64, method string, paidAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payments
		SET status = 'paid', payment_method = $2, pay_date = $3
		WHERE id = $1 AND status = 'pending'`,
		id, method, paidAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Summarize(ctx context.Context) (*Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0),
			COUNT(*) FILTER (WHERE status = 'paid'),
			COUNT(*) FILTER (WHERE status = 'pending')
		FROM payments`,
	).Scan(&s.TotalReceived, &s.TotalPending, &s.CountReceived, &s.CountPending)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Status returns the current status of a payment, or "" when it does not
// exist.
func (r *repository) Status(ctx context.Context, id int64) (string, error) {
	var status string
	err := r.pool.QueryRow(ctx, `SELECT status FROM payments WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}
