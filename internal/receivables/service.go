package receivables

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gestor-pos/gestor-pos/internal/platform/httpx"
	sharedpkg "github.com/gestor-pos/gestor-pos/internal/shared"
)

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log sharedpkg.AuditLog) error
}

// duePrefixRe accepts YYYY, YYYY-MM or YYYY-MM-DD.
var duePrefixRe = regexp.MustCompile(`^\d{4}(-\d{2}){0,2}$`)

// Service handles ledger queries and payment settlement.
type Service struct {
	repo  Repository
	audit AuditPort
	group singleflight.Group
	now   func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// List returns ledger entries ordered by due date, flagging overdue ones.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Entry, error) {
	if req.Status != "" && req.Status != "pending" && req.Status != "paid" {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, req.Status)
	}
	if req.DuePrefix != "" && !duePrefixRe.MatchString(req.DuePrefix) {
		return nil, fmt.Errorf("%w: due filter must be YYYY, YYYY-MM or YYYY-MM-DD", httpx.ErrValidation)
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 500
	}

	entries, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range entries {
		entries[i].Overdue = entries[i].IsOverdue(now)
	}
	return entries, nil
}

// MarkPaid settles a pending payment exactly once, stamping the method and
// the settlement date. A repeated call conflicts.
func (s *Service) MarkPaid(ctx context.Context, id int64, method string, actorID int64) error {
	ok, err := s.repo.MarkPaid(ctx, id, method, s.now())
	if err != nil {
		return err
	}
	if !ok {
		status, serr := s.repo.Status(ctx, id)
		if serr != nil {
			return serr
		}
		if status == "" {
			return fmt.Errorf("%w: payment %d", httpx.ErrNotFound, id)
		}
		return fmt.Errorf("%w: payment %d already settled", httpx.ErrConflict, id)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, sharedpkg.AuditLog{
			ActorID:  actorID,
			Action:   "payment.settled",
			Entity:   "payment",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"method": method},
		})
	}
	return nil
}

// Summarize returns the cash-flow totals. Concurrent callers collapse into
// a single database query.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	v, err, _ := s.group.Do("summary", func() (any, error) {
		return s.repo.Summarize(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Summary), nil
}
