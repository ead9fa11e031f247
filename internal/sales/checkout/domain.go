// Package checkout finalizes sales: header, line items, stock decrement and
// payment schedule are committed as one transaction.
package checkout

import "time"

// SaleType enumerates billing modes.
type SaleType string

const (
	// SaleTypeImmediate is fully paid at sale time.
	SaleTypeImmediate SaleType = "immediate"
	// SaleTypeInstallment is split into N equal future payments.
	SaleTypeInstallment SaleType = "installment"
	// SaleTypeTerm is a single payment deferred by 30 days.
	SaleTypeTerm SaleType = "term"
)

// Valid reports whether the sale type is known.
func (t SaleType) Valid() bool {
	switch t {
	case SaleTypeImmediate, SaleTypeInstallment, SaleTypeTerm:
		return true
	}
	return false
}

// PaymentStatus enumerates payment states.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment methods accepted at the register.
const (
	MethodPix    = "pix"
	MethodMoney  = "money"
	MethodCredit = "credit"
	MethodDebit  = "debit"
)

// ValidMethod reports whether the payment method is accepted.
func ValidMethod(method string) bool {
	switch method {
	case MethodPix, MethodMoney, MethodCredit, MethodDebit:
		return true
	}
	return false
}

// TermOffsetDays is the due-date offset for term sales and the spacing
// between installments.
const TermOffsetDays = 30

// Sale is the immutable header of a finalized sale.
type Sale struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"client_id"`
	UserID      int64     `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	SaleType    SaleType  `json:"sale_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaleItem is one line of a sale with the unit price frozen at sale time.
type SaleItem struct {
	ID        int64   `json:"id"`
	SaleID    int64   `json:"sale_id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Payment is one scheduled or settled receivable of a sale.
type Payment struct {
	ID                int64         `json:"id"`
	SaleID            int64         `json:"sale_id"`
	Amount            float64       `json:"amount"`
	DueDate           time.Time     `json:"due_date"`
	PayDate           *time.Time    `json:"pay_date"`
	Status            PaymentStatus `json:"status"`
	Method            *string       `json:"payment_method"`
	InstallmentNumber int           `json:"installment_number"`
	TotalInstallments int           `json:"total_installments"`
}

// SaleDetail joins a sale with its items, payments and client name. The
// client name is nil when the client was deleted after the sale.
type SaleDetail struct {
	Sale       Sale      `json:"sale"`
	ClientName *string   `json:"client_name"`
	Items      []SaleItem `json:"items"`
	Payments   []Payment `json:"payments"`
}
