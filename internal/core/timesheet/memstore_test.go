package timesheet

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/timesheet-engine/internal/core/clock"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	"github.com/shopspring/decimal"
)

type weeklyKey struct {
	employeeID string
	weekStart  workcal.Date
}

// memStore は全ポートを 1 つのロックで実装するインメモリ永続化層です。
type memStore struct {
	mu            sync.Mutex
	events        []*clock.Event
	entries       map[EntryKey]*Entry
	weekly        map[weeklyKey]*WeeklyTimesheetStatus
	notifications []*Notification
	periods       map[workcal.Window]*payperiod.PayPeriod
	employees     map[string]*employee.Employee

	failWeeklyFind error
	failEntryList  error
}

func newMemStore(employeeIDs ...string) *memStore {
	s := &memStore{
		entries:   make(map[EntryKey]*Entry),
		weekly:    make(map[weeklyKey]*WeeklyTimesheetStatus),
		periods:   make(map[workcal.Window]*payperiod.PayPeriod),
		employees: make(map[string]*employee.Employee),
	}
	for _, id := range employeeIDs {
		s.employees[id] = &employee.Employee{ID: id, IsActive: true}
	}
	return s
}

type memSnapshot struct {
	events        []*clock.Event
	entries       map[EntryKey]*Entry
	weekly        map[weeklyKey]*WeeklyTimesheetStatus
	notifications []*Notification
	periods       map[workcal.Window]*payperiod.PayPeriod
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		events:        append([]*clock.Event(nil), s.events...),
		entries:       make(map[EntryKey]*Entry, len(s.entries)),
		weekly:        make(map[weeklyKey]*WeeklyTimesheetStatus, len(s.weekly)),
		notifications: append([]*Notification(nil), s.notifications...),
		periods:       make(map[workcal.Window]*payperiod.PayPeriod, len(s.periods)),
	}
	for k, v := range s.entries {
		copy := *v
		snap.entries[k] = &copy
	}
	for k, v := range s.weekly {
		copy := *v
		snap.weekly[k] = &copy
	}
	for k, v := range s.periods {
		copy := *v
		snap.periods[k] = &copy
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.events = snap.events
	s.entries = snap.entries
	s.weekly = snap.weekly
	s.notifications = snap.notifications
	s.periods = snap.periods
}

type txKey struct{}

// memTx は書き込みを直列化し、失敗時にストア全体を巻き戻します。入れ子の呼び出しは外側に合流します。
type memTx struct {
	write sync.Mutex
	store *memStore
}

func (t *memTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (t *memTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.write.Lock()
	defer t.write.Unlock()

	t.store.mu.Lock()
	snap := t.store.snapshot()
	t.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.mu.Lock()
		t.store.restore(snap)
		t.store.mu.Unlock()
		return err
	}
	return nil
}

type memEntries struct{ *memStore }

func (r memEntries) AddHours(_ context.Context, key EntryKey, hours decimal.Decimal, now time.Time) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok {
		entry = &Entry{
			ID:          uuid.NewString(),
			EmployeeID:  key.EmployeeID,
			WorkDate:    key.WorkDate,
			PayPeriodID: key.PayPeriodID,
			HoursWorked: decimal.Zero,
			Status:      EntryDraft,
			CreatedAt:   now,
		}
		r.entries[key] = entry
	}
	entry.HoursWorked = entry.HoursWorked.Add(hours)
	entry.UpdatedAt = now
	copy := *entry
	return &copy, nil
}

func (r memEntries) SetHours(_ context.Context, key EntryKey, hours decimal.Decimal, now time.Time) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok {
		entry = &Entry{
			ID:          uuid.NewString(),
			EmployeeID:  key.EmployeeID,
			WorkDate:    key.WorkDate,
			PayPeriodID: key.PayPeriodID,
			Status:      EntryDraft,
			CreatedAt:   now,
		}
		r.entries[key] = entry
	}
	entry.HoursWorked = hours
	entry.UpdatedAt = now
	copy := *entry
	return &copy, nil
}

func (r memEntries) List(_ context.Context, filter EntryFilter) ([]*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failEntryList != nil {
		return nil, r.failEntryList
	}
	var out []*Entry
	for _, entry := range r.entries {
		if filter.EmployeeID != "" && entry.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.PayPeriodID != "" && entry.PayPeriodID != filter.PayPeriodID {
			continue
		}
		if filter.From != nil && entry.WorkDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && entry.WorkDate.After(*filter.To) {
			continue
		}
		copy := *entry
		out = append(out, &copy)
	}
	sortEntries(out)
	return out, nil
}

func (r memEntries) SubmitPeriod(_ context.Context, employeeID, payPeriodID string, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, entry := range r.entries {
		if entry.EmployeeID != employeeID || entry.PayPeriodID != payPeriodID {
			continue
		}
		if entry.Status != EntryDraft && entry.Status != EntryDenied {
			continue
		}
		entry.Status = EntrySubmitted
		entry.SubmissionCount++
		entry.UpdatedAt = now
		count++
	}
	return count, nil
}

func (r memEntries) ReviewSubmitted(_ context.Context, update ReviewUpdate) ([]*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Entry
	for _, entry := range r.entries {
		if entry.EmployeeID != update.EmployeeID || entry.PayPeriodID != update.PayPeriodID || entry.Status != EntrySubmitted {
			continue
		}
		reviewer := update.ReviewerID
		reviewedAt := update.ReviewedAt
		entry.Status = update.Status
		entry.ReviewerID = &reviewer
		entry.ReviewedAt = &reviewedAt
		entry.ManagerFeedback = update.Feedback
		entry.UpdatedAt = update.ReviewedAt
		copy := *entry
		out = append(out, &copy)
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []*Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].WorkDate.Equal(entries[j].WorkDate) {
			return entries[i].WorkDate.Before(entries[j].WorkDate)
		}
		return entries[i].EmployeeID < entries[j].EmployeeID
	})
}

type memWeekly struct{ *memStore }

func (r memWeekly) Upsert(_ context.Context, status *WeeklyTimesheetStatus) (*WeeklyTimesheetStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *status
	r.weekly[weeklyKey{status.EmployeeID, status.WeekStartDate}] = &copy
	out := copy
	return &out, nil
}

func (r memWeekly) Find(_ context.Context, employeeID string, weekStart workcal.Date) (*WeeklyTimesheetStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWeeklyFind != nil {
		return nil, r.failWeeklyFind
	}
	found, ok := r.weekly[weeklyKey{employeeID, weekStart}]
	if !ok {
		return nil, ErrWeeklyStatusNotFound
	}
	copy := *found
	return &copy, nil
}

func (r memWeekly) ListByWeek(_ context.Context, weekStart workcal.Date) ([]*WeeklyTimesheetStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*WeeklyTimesheetStatus
	for key, status := range r.weekly {
		if key.weekStart.Equal(weekStart) {
			copy := *status
			out = append(out, &copy)
		}
	}
	return out, nil
}

type memNotifications struct{ *memStore }

func (r memNotifications) Create(_ context.Context, notification *Notification) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *notification
	copy.ID = uuid.NewString()
	r.notifications = append(r.notifications, &copy)
	out := copy
	return &out, nil
}

func (r memNotifications) ExistsForEntry(_ context.Context, entryID string, typ NotificationType) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.TimesheetEntryID == entryID && n.Type == typ {
			return true, nil
		}
	}
	return false, nil
}

func (r memNotifications) ListByEmployee(_ context.Context, employeeID string, unreadOnly bool, limit int) ([]*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Notification
	for i := len(r.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		n := r.notifications[i]
		if n.EmployeeID != employeeID || (unreadOnly && n.Read) {
			continue
		}
		copy := *n
		out = append(out, &copy)
	}
	return out, nil
}

func (s *memStore) notificationsOf(typ NotificationType) []*Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Notification
	for _, n := range s.notifications {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

type memEvents struct{ *memStore }

func (r memEvents) Append(_ context.Context, event *clock.Event) (*clock.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *event
	copy.ID = uuid.NewString()
	r.events = append(r.events, &copy)
	out := copy
	return &out, nil
}

func (r memEvents) Latest(_ context.Context, employeeID string) (*clock.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].EmployeeID == employeeID {
			copy := *r.events[i]
			return &copy, nil
		}
	}
	return nil, clock.ErrEventNotFound
}

func (r memEvents) Recent(_ context.Context, employeeID string, limit int) ([]*clock.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*clock.Event
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].EmployeeID == employeeID {
			copy := *r.events[i]
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r memEvents) ListBetween(_ context.Context, employeeID string, from, to time.Time) ([]*clock.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*clock.Event
	for _, e := range r.events {
		if e.EmployeeID == employeeID && !e.OccurredAt.Before(from) && e.OccurredAt.Before(to) {
			copy := *e
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

type memPeriods struct{ *memStore }

func (r memPeriods) Ensure(_ context.Context, window workcal.Window, now time.Time) (*payperiod.PayPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	period, ok := r.periods[window]
	if !ok {
		period = &payperiod.PayPeriod{
			ID:        uuid.NewString(),
			StartDate: window.Start,
			EndDate:   window.End,
			Status:    payperiod.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.periods[window] = period
	}
	copy := *period
	return &copy, nil
}

func (r memPeriods) FindByID(_ context.Context, id string) (*payperiod.PayPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, period := range r.periods {
		if period.ID == id {
			copy := *period
			return &copy, nil
		}
	}
	return nil, payperiod.ErrPeriodNotFound
}

func (r memPeriods) Update(_ context.Context, period *payperiod.PayPeriod) (*payperiod.PayPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *period
	r.periods[period.Window()] = &copy
	out := copy
	return &out, nil
}

func (r memPeriods) List(_ context.Context, limit int) ([]*payperiod.PayPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*payperiod.PayPeriod
	for _, period := range r.periods {
		copy := *period
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memEmployees struct{ *memStore }

func (r memEmployees) LockByID(_ context.Context, id string) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	emp, ok := r.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	copy := *emp
	return &copy, nil
}
