package checkout

import (
	"errors"
	"time"

	shared "github.com/gestor-pos/gestor-pos/internal/sales/shared"
)

// ErrInvalidSchedule reports unusable schedule parameters.
var ErrInvalidSchedule = errors.New("checkout: invalid schedule parameters")

// PaymentDraft is a payment row computed before persistence.
type PaymentDraft struct {
	AmountCents       int64
	DueDate           time.Time
	PaidAt            *time.Time
	Status            PaymentStatus
	Method            *string
	InstallmentNumber int
	TotalInstallments int
}

// ScheduleParams drive payment schedule generation.
type ScheduleParams struct {
	Type         SaleType
	TotalCents   int64
	Now          time.Time
	Method       string
	Installments int
}

// BuildSchedule generates the payment rows for a sale.
//
// immediate: one payment due now, already settled with the chosen method.
// term: one pending payment due in 30 days.
// installment: N pending payments due every 30 days; each gets the floor
// share of the total in cents and the final one absorbs the remainder, so
// the schedule always sums exactly to the sale total.
func BuildSchedule(p ScheduleParams) ([]PaymentDraft, error) {
	switch p.Type {
	case SaleTypeImmediate:
		if !ValidMethod(p.Method) {
			return nil, ErrInvalidSchedule
		}
		method := p.Method
		paidAt := p.Now
		return []PaymentDraft{{
			AmountCents:       p.TotalCents,
			DueDate:           p.Now,
			PaidAt:            &paidAt,
			Status:            PaymentStatusPaid,
			Method:            &method,
			InstallmentNumber: 1,
			TotalInstallments: 1,
		}}, nil

	case SaleTypeTerm:
		return []PaymentDraft{{
			AmountCents:       p.TotalCents,
			DueDate:           p.Now.AddDate(0, 0, TermOffsetDays),
			Status:            PaymentStatusPending,
			InstallmentNumber: 1,
			TotalInstallments: 1,
		}}, nil

	case SaleTypeInstallment:
		if p.Installments < 2 {
			return nil, ErrInvalidSchedule
		}
		amounts := shared.SplitInstallments(p.TotalCents, p.Installments)
		drafts := make([]PaymentDraft, p.Installments)
		for i := range drafts {
			drafts[i] = PaymentDraft{
				AmountCents:       amounts[i],
				DueDate:           p.Now.AddDate(0, 0, TermOffsetDays*(i+1)),
				Status:            PaymentStatusPending,
				InstallmentNumber: i + 1,
				TotalInstallments: p.Installments,
			}
		}
		return drafts, nil
	}
	return nil, ErrInvalidSchedule
}
