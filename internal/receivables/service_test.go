package receivables

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestor-pos/gestor-pos/internal/platform/httpx"
	sharedpkg "github.com/gestor-pos/gestor-pos/internal/shared"
)

type mockRepository struct {
	mu      sync.Mutex
	entries []Entry

	lastListReq    ListRequest
	summarizeCalls int
}

func (m *mockRepository) List(ctx context.Context, req ListRequest) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastListReq = req
	out := append([]Entry(nil), m.entries...)
	return out, nil
}

func (m *mockRepository) MarkPaid(ctx context.Context, id int64, method string, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id && m.entries[i].Status == "pending" {
			m.entries[i].Status = "paid"
			m.entries[i].Method = &method
			m.entries[i].PayDate = &paidAt
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) Status(ctx context.Context, id int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e.Status, nil
		}
	}
	return "", nil
}

func (m *mockRepository) Summarize(ctx context.Context) (*Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summarizeCalls++
	s := &Summary{}
	for _, e := range m.entries {
		if e.Status == "paid" {
			s.TotalReceived += e.Amount
			s.CountReceived++
		} else {
			s.TotalPending += e.Amount
			s.CountPending++
		}
	}
	return s, nil
}

type noopAudit struct {
	records []sharedpkg.AuditLog
}

func (a *noopAudit) Record(ctx context.Context, log sharedpkg.AuditLog) error {
	a.records = append(a.records, log)
	return nil
}

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func newLedgerService(entries ...Entry) (*Service, *mockRepository, *noopAudit) {
	repo := &mockRepository{entries: entries}
	audit := &noopAudit{}
	svc := NewService(repo, audit)
	svc.now = func() time.Time { return testNow }
	return svc, repo, audit
}

func TestListFlagsOverduePayments(t *testing.T) {
	name := "Ana Souza"
	svc, _, _ := newLedgerService(
		Entry{ID: 1, ClientName: &name, Amount: 10, Status: "pending", DueDate: testNow.AddDate(0, 0, -1)},
		Entry{ID: 2, ClientName: &name, Amount: 10, Status: "pending", DueDate: testNow.AddDate(0, 0, 1)},
		Entry{ID: 3, ClientName: &name, Amount: 10, Status: "paid", DueDate: testNow.AddDate(0, 0, -10)},
	)

	entries, err := svc.List(context.Background(), ListRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.True(t, entries[0].Overdue)
	assert.False(t, entries[1].Overdue)
	// Paid payments are never overdue, regardless of due date.
	assert.False(t, entries[2].Overdue)
}

func TestListValidatesFilters(t *testing.T) {
	svc, _, _ := newLedgerService()

	_, err := svc.List(context.Background(), ListRequest{Status: "late"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.List(context.Background(), ListRequest{DuePrefix: "29/08/2026"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	for _, prefix := range []string{"2026", "2026-08", "2026-08-29"} {
		_, err = svc.List(context.Background(), ListRequest{DuePrefix: prefix})
		require.NoError(t, err, prefix)
	}
}

func TestListAppliesDefaultLimit(t *testing.T) {
	svc, repo, _ := newLedgerService()

	_, err := svc.List(context.Background(), ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int32(500), repo.lastListReq.Limit)
}

func TestMarkPaidSettlesExactlyOnce(t *testing.T) {
	svc, repo, audit := newLedgerService(
		Entry{ID: 1, Amount: 12.50, Status: "pending", DueDate: testNow},
	)

	require.NoError(t, svc.MarkPaid(context.Background(), 1, "pix", 42))
	assert.Equal(t, "paid", repo.entries[0].Status)
	require.NotNil(t, repo.entries[0].Method)
	assert.Equal(t, "pix", *repo.entries[0].Method)
	require.NotNil(t, repo.entries[0].PayDate)
	require.Len(t, audit.records, 1)
	assert.Equal(t, "payment.settled", audit.records[0].Action)

	// Second settlement attempt conflicts.
	err := svc.MarkPaid(context.Background(), 1, "money", 42)
	assert.ErrorIs(t, err, httpx.ErrConflict)
	require.Len(t, audit.records, 1)
}

func TestMarkPaidUnknownPayment(t *testing.T) {
	svc, _, _ := newLedgerService()

	err := svc.MarkPaid(context.Background(), 99, "pix", 42)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestSummarizeTotals(t *testing.T) {
	svc, _, _ := newLedgerService(
		Entry{ID: 1, Amount: 10, Status: "paid"},
		Entry{ID: 2, Amount: 15, Status: "paid"},
		Entry{ID: 3, Amount: 20, Status: "pending"},
	)

	s, err := svc.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25.0, s.TotalReceived)
	assert.Equal(t, 20.0, s.TotalPending)
	assert.Equal(t, int64(2), s.CountReceived)
	assert.Equal(t, int64(1), s.CountPending)
}

func TestIsOverdueDerivation(t *testing.T) {
	e := Entry{Status: "pending", DueDate: testNow.Add(-time.Hour)}
	assert.True(t, e.IsOverdue(testNow))

	e.Status = "paid"
	assert.False(t, e.IsOverdue(testNow))

	e = Entry{Status: "pending", DueDate: testNow.Add(time.Hour)}
	assert.False(t, e.IsOverdue(testNow))
}
