package checkout

// CheckoutRequest carries the finalization parameters for the session cart.
type CheckoutRequest struct {
	ClientID       int64   `json:"client_id" validate:"required,gt=0"`
	SaleType       string  `json:"sale_type" validate:"required"`
	Method         string  `json:"payment_method" validate:"omitempty,oneof=pix money credit debit"`
	ReceivedAmount float64 `json:"received_amount" validate:"omitempty,gte=0"`
	Installments   int     `json:"installments" validate:"omitempty,gte=2,lte=48"`
}

// CheckoutResult is the response payload of a finalized sale.
type CheckoutResult struct {
	Sale     Sale      `json:"sale"`
	Items    []SaleItem `json:"items"`
	Payments []Payment `json:"payments"`
	Change   float64   `json:"change"`
}
