// Package receivables exposes the payment ledger: every scheduled or
// settled payment of every sale, joined to the client it belongs to.
package receivables

import "time"

// Entry is one ledger row. ClientName is nil when the client was removed
// from the registry after the sale.
type Entry struct {
	ID                int64      `json:"id"`
	SaleID            int64      `json:"sale_id"`
	ClientName        *string    `json:"client_name"`
	SaleType          string     `json:"sale_type"`
	Amount            float64    `json:"amount"`
	DueDate           time.Time  `json:"due_date"`
	PayDate           *time.Time `json:"pay_date"`
	Status            string     `json:"status"`
	Method            *string    `json:"payment_method"`
	InstallmentNumber int        `json:"installment_number"`
	TotalInstallments int        `json:"total_installments"`
	Overdue           bool       `json:"overdue"`
}

// IsOverdue reports whether the entry is pending past its due date. Overdue
// is always derived, never stored.
func (e Entry) IsOverdue(now time.Time) bool {
	return e.Status == "pending" && e.DueDate.Before(now)
}

// Summary aggregates the ledger into cash-flow totals.
type Summary struct {
	TotalReceived float64 `json:"total_received"`
	TotalPending  float64 `json:"total_pending"`
	CountReceived int64   `json:"count_received"`
	CountPending  int64   `json:"count_pending"`
}
