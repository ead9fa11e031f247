package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestor-pos/gestor-pos/internal/catalog/clients"
	"github.com/gestor-pos/gestor-pos/internal/platform/httpx"
	"github.com/gestor-pos/gestor-pos/internal/sales/cart"
	shared "github.com/gestor-pos/gestor-pos/internal/sales/shared"
	sharedpkg "github.com/gestor-pos/gestor-pos/internal/shared"
)

type mockRepository struct {
	lastDraft *SaleDraft
	nextID    int64
	failWith  error
}

func (m *mockRepository) FinalizeSale(ctx context.Context, draft SaleDraft) (*SaleDetail, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.lastDraft = &draft
	m.nextID++

	sale := Sale{
		ID:          m.nextID,
		ClientID:    draft.ClientID,
		UserID:      draft.UserID,
		TotalAmount: shared.FromCents(draft.TotalCents),
		SaleType:    draft.Type,
		CreatedAt:   time.Now(),
	}
	detail := &SaleDetail{Sale: sale}
	for i, it := range draft.Items {
		detail.Items = append(detail.Items, SaleItem{
			ID: int64(i + 1), SaleID: sale.ID, ProductID: it.ProductID,
			Name: it.Name, Quantity: it.Quantity, Price: shared.FromCents(it.PriceCents),
		})
	}
	for i, p := range draft.Payments {
		detail.Payments = append(detail.Payments, Payment{
			ID: int64(i + 1), SaleID: sale.ID, Amount: shared.FromCents(p.AmountCents),
			DueDate: p.DueDate, PayDate: p.PaidAt, Status: p.Status, Method: p.Method,
			InstallmentNumber: p.InstallmentNumber, TotalInstallments: p.TotalInstallments,
		})
	}
	return detail, nil
}

func (m *mockRepository) GetDetail(ctx context.Context, id int64) (*SaleDetail, error) {
	return nil, httpx.ErrNotFound
}

type mockClients struct {
	known map[int64]*clients.Client
}

func (m *mockClients) Get(ctx context.Context, id int64) (*clients.Client, error) {
	if c, ok := m.known[id]; ok {
		return c, nil
	}
	return nil, clients.ErrNotFound
}

type mockAudit struct {
	records []sharedpkg.AuditLog
}

func (m *mockAudit) Record(ctx context.Context, log sharedpkg.AuditLog) error {
	m.records = append(m.records, log)
	return nil
}

func newTestService() (*Service, *mockRepository, *mockAudit) {
	repo := &mockRepository{}
	audit := &mockAudit{}
	clientPort := &mockClients{known: map[int64]*clients.Client{
		10: {ID: 10, Name: "Ana Souza"},
	}}
	svc := NewService(repo, clientPort, audit)
	svc.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	return svc, repo, audit
}

func notebookCart() *cart.Cart {
	c := &cart.Cart{}
	c.AddLine(cart.Line{ProductID: 2, Code: "P002", Name: "Caderno", Unit: "un", UnitPrice: 12.50})
	c.SetQuantity(2, 2)
	return c
}

func TestFinalizeInstallmentSale(t *testing.T) {
	svc, repo, audit := newTestService()

	result, err := svc.Finalize(context.Background(), 1, notebookCart(), CheckoutRequest{
		ClientID:     10,
		SaleType:     "installment",
		Installments: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 25.00, result.Sale.TotalAmount)
	assert.Equal(t, SaleTypeInstallment, result.Sale.SaleType)
	require.Len(t, result.Payments, 2)
	assert.Equal(t, 12.50, result.Payments[0].Amount)
	assert.Equal(t, 12.50, result.Payments[1].Amount)
	assert.Equal(t, svc.now().AddDate(0, 0, 30), result.Payments[0].DueDate)
	assert.Equal(t, svc.now().AddDate(0, 0, 60), result.Payments[1].DueDate)
	for _, p := range result.Payments {
		assert.Equal(t, PaymentStatusPending, p.Status)
	}

	require.NotNil(t, repo.lastDraft)
	require.Len(t, repo.lastDraft.Items, 1)
	assert.Equal(t, 2, repo.lastDraft.Items[0].Quantity)

	require.Len(t, audit.records, 1)
	assert.Equal(t, "sale.finalized", audit.records[0].Action)
}

func TestFinalizeImmediateCashSaleComputesChange(t *testing.T) {
	svc, _, _ := newTestService()

	result, err := svc.Finalize(context.Background(), 1, notebookCart(), CheckoutRequest{
		ClientID:       10,
		SaleType:       "immediate",
		Method:         MethodMoney,
		ReceivedAmount: 30.00,
	})
	require.NoError(t, err)

	assert.Equal(t, 5.00, result.Change)
	require.Len(t, result.Payments, 1)
	p := result.Payments[0]
	assert.Equal(t, PaymentStatusPaid, p.Status)
	require.NotNil(t, p.Method)
	assert.Equal(t, MethodMoney, *p.Method)
	require.NotNil(t, p.PayDate)
}

func TestFinalizeImmediateRejectsInsufficientCash(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Finalize(context.Background(), 1, notebookCart(), CheckoutRequest{
		ClientID:       10,
		SaleType:       "immediate",
		Method:         MethodMoney,
		ReceivedAmount: 20.00,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestFinalizeTermSale(t *testing.T) {
	svc, _, _ := newTestService()

	result, err := svc.Finalize(context.Background(), 1, notebookCart(), CheckoutRequest{
		ClientID: 10,
		SaleType: "term",
	})
	require.NoError(t, err)
	require.Len(t, result.Payments, 1)
	assert.Equal(t, PaymentStatusPending, result.Payments[0].Status)
	assert.Equal(t, svc.now().AddDate(0, 0, 30), result.Payments[0].DueDate)
}

func TestFinalizeRejectsEmptyCart(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Finalize(context.Background(), 1, &cart.Cart{}, CheckoutRequest{
		ClientID: 10,
		SaleType: "immediate",
		Method:   MethodPix,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestFinalizeRejectsUnknownClient(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Finalize(context.Background(), 1, notebookCart(), CheckoutRequest{
		ClientID: 99,
		SaleType: "term",
	})
	assert.ErrorIs(t, err, clients.ErrNotFound)
}

func TestFinalizeRejectsUnknownSaleType(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Finalize(context.Background(), 1, notebookCart(), CheckoutRequest{
		ClientID: 10,
		SaleType: "raffle",
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestFinalizeRejectsSingleInstallment(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Finalize(context.Background(), 1, notebookCart(), CheckoutRequest{
		ClientID:     10,
		SaleType:     "installment",
		Installments: 1,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestFinalizePaymentsAlwaysSumToTotal(t *testing.T) {
	svc, repo, _ := newTestService()

	c := &cart.Cart{}
	c.AddLine(cart.Line{ProductID: 5, Name: "Avulso", UnitPrice: 100.00})

	result, err := svc.Finalize(context.Background(), 1, c, CheckoutRequest{
		ClientID:     10,
		SaleType:     "installment",
		Installments: 3,
	})
	require.NoError(t, err)

	var sum int64
	for _, p := range repo.lastDraft.Payments {
		sum += p.AmountCents
	}
	assert.Equal(t, repo.lastDraft.TotalCents, sum)
	assert.Equal(t, 33.34, result.Payments[2].Amount)
}
