package payperiod

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
)

type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (s *stubClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *stubClock) set(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = t
}

type fakePeriodRepo struct {
	mu      sync.Mutex
	periods map[string]*PayPeriod
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{periods: make(map[string]*PayPeriod)}
}

func (r *fakePeriodRepo) Ensure(_ context.Context, w workcal.Window, now time.Time) (*PayPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.periods {
		if p.StartDate == w.Start && p.EndDate == w.End {
			return clonePeriod(p), nil
		}
	}
	p := &PayPeriod{
		ID:        uuid.NewString(),
		StartDate: w.Start,
		EndDate:   w.End,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.periods[p.ID] = p
	return clonePeriod(p), nil
}

func (r *fakePeriodRepo) FindByID(_ context.Context, id string) (*PayPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.periods[id]
	if !ok {
		return nil, ErrPeriodNotFound
	}
	return clonePeriod(p), nil
}

func (r *fakePeriodRepo) Update(_ context.Context, p *PayPeriod) (*PayPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.periods[p.ID]; !ok {
		return nil, ErrPeriodNotFound
	}
	r.periods[p.ID] = clonePeriod(p)
	return clonePeriod(p), nil
}

func (r *fakePeriodRepo) List(_ context.Context, limit int) ([]*PayPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*PayPeriod, 0, len(r.periods))
	for _, p := range r.periods {
		all = append(all, clonePeriod(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate.After(all[j].StartDate) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func clonePeriod(p *PayPeriod) *PayPeriod {
	copy := *p
	if p.PaymentDate != nil {
		d := *p.PaymentDate
		copy.PaymentDate = &d
	}
	return &copy
}

func newTestService(t *testing.T, now time.Time) (*Service, *fakePeriodRepo, *stubClock) {
	t.Helper()
	cal, err := workcal.NewCalendar("America/New_York", "monday")
	if err != nil {
		t.Fatalf("NewCalendar returned error: %v", err)
	}
	repo := newFakePeriodRepo()
	clk := &stubClock{now: now}
	return NewService(repo, cal, clk, nil, nil), repo, clk
}

var managerActor = apperr.Actor{EmployeeID: "0a9b8c7d-6e5f-4a3b-8c2d-1e0f9a8b7c6d", IsManager: true}

func TestService_GetOrCreateCurrent_SameWeekReturnsSamePeriod(t *testing.T) {
	t.Parallel()

	// 2025-03-05 (水) 15:00 UTC
	svc, repo, clk := newTestService(t, time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC))

	first, err := svc.GetOrCreateCurrent(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreateCurrent returned error: %v", err)
	}
	if first.StartDate != workcal.NewDate(2025, time.March, 3) || first.EndDate != workcal.NewDate(2025, time.March, 9) {
		t.Fatalf("unexpected window %s - %s", first.StartDate, first.EndDate)
	}
	if first.Status != StatusActive {
		t.Fatalf("expected active status, got %s", first.Status)
	}

	clk.set(time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)) // 日曜 19:00 EDT
	second, err := svc.GetOrCreateCurrent(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreateCurrent returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected identical period id, got %s and %s", first.ID, second.ID)
	}
	if len(repo.periods) != 1 {
		t.Fatalf("expected exactly one period row, got %d", len(repo.periods))
	}

	clk.set(time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC)) // 月曜 01:00 EDT
	next, err := svc.GetOrCreateCurrent(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreateCurrent returned error: %v", err)
	}
	if next.ID == first.ID || next.StartDate != workcal.NewDate(2025, time.March, 10) {
		t.Fatalf("expected a new period starting 2025-03-10, got %+v", next)
	}
}

func TestService_GetOrCreateCurrent_ConcurrentCallers(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t, time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC))

	const callers = 16
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.GetOrCreateCurrent(context.Background())
			if err != nil {
				t.Errorf("GetOrCreateCurrent returned error: %v", err)
				return
			}
			ids[i] = p.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("expected all callers to share one period, got %v", ids)
		}
	}
	if len(repo.periods) != 1 {
		t.Fatalf("expected one period row, got %d", len(repo.periods))
	}
}

func TestService_GetByID(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, time.Now().UTC())

	if _, err := svc.GetByID(context.Background(), "bogus"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), uuid.NewString()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found kind, got %v", err)
	}
}

func TestService_CloseAndMarkPaid(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC))
	ctx := context.Background()

	period, err := svc.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent returned error: %v", err)
	}

	if _, err := svc.MarkPaid(ctx, managerActor, period.ID, workcal.NewDate(2025, time.March, 14)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for active period, got %v", err)
	}

	if _, err := svc.Close(ctx, apperr.Actor{EmployeeID: "x"}, period.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	closed, err := svc.Close(ctx, managerActor, period.ID)
	if err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if closed.Status != StatusClosed {
		t.Fatalf("expected closed, got %s", closed.Status)
	}

	if _, err := svc.MarkPaid(ctx, managerActor, period.ID, workcal.NewDate(2025, time.March, 1)); !errors.Is(err, ErrInvalidPaymentDate) {
		t.Fatalf("expected ErrInvalidPaymentDate, got %v", err)
	}

	paid, err := svc.MarkPaid(ctx, managerActor, period.ID, workcal.NewDate(2025, time.March, 14))
	if err != nil {
		t.Fatalf("MarkPaid returned error: %v", err)
	}
	if paid.Status != StatusPaid || paid.PaymentDate == nil || paid.PaymentDate.String() != "2025-03-14" {
		t.Fatalf("unexpected paid period %+v", paid)
	}

	if _, err := svc.Close(ctx, managerActor, period.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestService_List(t *testing.T) {
	t.Parallel()

	svc, _, clk := newTestService(t, time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.GetOrCreateCurrent(ctx); err != nil {
			t.Fatalf("seed error: %v", err)
		}
		clk.set(clk.Now().AddDate(0, 0, 7))
	}

	periods, err := svc.List(ctx, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	if !periods[0].StartDate.After(periods[1].StartDate) {
		t.Fatalf("expected newest first")
	}

	if _, err := svc.List(ctx, maxListPageSize+1); !errors.Is(err, ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
}
