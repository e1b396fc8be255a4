package timesheet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/clock"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	empID     = "7b0e6d4a-2f51-4d7c-9a3e-1c2b3d4e5f60"
	otherID   = "0f1e2d3c-4b5a-4978-8695-a4b3c2d1e0f9"
	managerID = "c3d4e5f6-a7b8-4c9d-8e0f-1a2b3c4d5e6f"
)

var manager = apperr.Actor{EmployeeID: managerID, IsManager: true}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	store   *memStore
	clock   *manualClock
	periods *payperiod.Service
	sheets  *Service
	clocks  *clock.Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	calendar, err := workcal.NewCalendar("UTC", "Monday")
	require.NoError(t, err)

	store := newMemStore(empID, otherID, managerID)
	clk := &manualClock{now: time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)}
	tx := &memTx{store: store}

	periods := payperiod.NewService(memPeriods{store}, calendar, clk, tx, nil)
	sheets := NewService(Repositories{
		Entries:       memEntries{store},
		Weekly:        memWeekly{store},
		Notifications: memNotifications{store},
		Events:        memEvents{store},
	}, periods, calendar, clk, tx, nil, opts...)
	clocks := clock.NewService(memEvents{store}, memEmployees{store}, sheets, clk, tx, nil)

	return &fixture{store: store, clock: clk, periods: periods, sheets: sheets, clocks: clocks}
}

// work は in から out までの勤務を打刻します。
func (f *fixture) work(t *testing.T, employeeID string, in, out time.Time) {
	t.Helper()
	ctx := context.Background()

	f.clock.set(in)
	_, err := f.clocks.ClockIn(ctx, employeeID)
	require.NoError(t, err)

	f.clock.set(out)
	_, err = f.clocks.ClockOut(ctx, employeeID)
	require.NoError(t, err)
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestScenario_SingleSessionSubmitApprove(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.work(t, empID, at(3, 9, 0), at(3, 17, 30))

	list, err := f.sheets.ListEntries(ctx, empID, "")
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)
	entry := list.Entries[0]
	require.Equal(t, "8.500", entry.HoursWorked.StringFixed(3))
	require.Equal(t, EntryDraft, entry.Status)
	require.Equal(t, workcal.NewDate(2025, time.March, 3), entry.WorkDate)

	count, err := f.sheets.Submit(ctx, empID, list.PayPeriodID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	status, err := f.sheets.GetStatus(ctx, empID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, status.Status)
	require.False(t, status.Degraded)

	reviewed, err := f.sheets.Approve(ctx, ReviewInput{Actor: manager, EmployeeID: empID})
	require.NoError(t, err)
	require.Len(t, reviewed, 1)
	require.Equal(t, EntryApproved, reviewed[0].Status)
	require.NotNil(t, reviewed[0].ReviewerID)
	require.Equal(t, managerID, *reviewed[0].ReviewerID)
	require.NotNil(t, reviewed[0].ReviewedAt)

	approvals := f.store.notificationsOf(NotificationApproval)
	require.Len(t, approvals, 1)
	require.Equal(t, entry.ID, approvals[0].TimesheetEntryID)

	weekly, err := memWeekly{f.store}.Find(ctx, empID, workcal.NewDate(2025, time.March, 3))
	require.NoError(t, err)
	require.Equal(t, WeeklyApproved, weekly.Status)

	status, err = f.sheets.GetStatus(ctx, empID)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, status.Status)
}

func TestScenario_TwoSessionsSameDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	f.work(t, empID, at(4, 9, 0), at(4, 12, 0))
	f.work(t, empID, at(4, 13, 0), at(4, 17, 0))

	list, err := f.sheets.ListEntries(context.Background(), empID, "")
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)
	require.Equal(t, "7.000", list.Entries[0].HoursWorked.StringFixed(3))
	require.True(t, list.TotalHours.Equal(decimal.NewFromInt(7)))
}

func TestScenario_SamePeriodWithinWeek(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.clock.set(at(3, 10, 0))
	first, err := f.periods.GetOrCreateCurrent(ctx)
	require.NoError(t, err)

	f.clock.set(at(9, 23, 59))
	second, err := f.periods.GetOrCreateCurrent(ctx)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Len(t, f.store.periods, 1)
}

func TestScenario_DenyThenResubmit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.work(t, empID, at(4, 9, 0), at(4, 17, 0))
	list, err := f.sheets.ListEntries(ctx, empID, "")
	require.NoError(t, err)

	_, err = f.sheets.Submit(ctx, empID, list.PayPeriodID)
	require.NoError(t, err)

	denied, err := f.sheets.Deny(ctx, ReviewInput{
		Actor:       manager,
		EmployeeID:  empID,
		PayPeriodID: list.PayPeriodID,
		Feedback:    feedbackOf("missing hours Tuesday"),
	})
	require.NoError(t, err)
	require.Len(t, denied, 1)
	require.Equal(t, EntryDenied, denied[0].Status)
	require.NotNil(t, denied[0].ManagerFeedback)
	require.Equal(t, "missing hours Tuesday", *denied[0].ManagerFeedback)

	denials := f.store.notificationsOf(NotificationDenial)
	require.Len(t, denials, 1)
	require.Contains(t, denials[0].Message, "missing hours Tuesday")

	status, err := f.sheets.GetStatus(ctx, empID)
	require.NoError(t, err)
	require.Equal(t, StatusDenied, status.Status)

	count, err := f.sheets.Submit(ctx, empID, list.PayPeriodID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	list, err = f.sheets.ListEntries(ctx, empID, list.PayPeriodID)
	require.NoError(t, err)
	require.Equal(t, EntrySubmitted, list.Entries[0].Status)
	require.Equal(t, 2, list.Entries[0].SubmissionCount)

	weekly, err := memWeekly{f.store}.Find(ctx, empID, workcal.NewDate(2025, time.March, 3))
	require.NoError(t, err)
	require.Equal(t, WeeklyPending, weekly.Status)
}

func TestScenario_SubmitIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.work(t, empID, at(3, 9, 0), at(3, 17, 0))
	f.work(t, empID, at(4, 9, 0), at(4, 17, 0))
	list, err := f.sheets.ListEntries(ctx, empID, "")
	require.NoError(t, err)

	first, err := f.sheets.Submit(ctx, empID, list.PayPeriodID)
	require.NoError(t, err)
	require.Equal(t, 2, first)
	afterFirst, err := f.sheets.ListEntries(ctx, empID, list.PayPeriodID)
	require.NoError(t, err)

	second, err := f.sheets.Submit(ctx, empID, list.PayPeriodID)
	require.NoError(t, err)
	require.Zero(t, second)
	afterSecond, err := f.sheets.ListEntries(ctx, empID, list.PayPeriodID)
	require.NoError(t, err)

	require.Len(t, afterSecond.Entries, len(afterFirst.Entries))
	for i := range afterFirst.Entries {
		require.Equal(t, afterFirst.Entries[i].Status, afterSecond.Entries[i].Status)
		require.Equal(t, afterFirst.Entries[i].SubmissionCount, afterSecond.Entries[i].SubmissionCount)
	}

	weekly, err := memWeekly{f.store}.Find(ctx, empID, list.Window.Start)
	require.NoError(t, err)
	require.Equal(t, WeeklyPending, weekly.Status)
}

func TestScenario_ReviewLeavesDraftUntouched(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.work(t, empID, at(3, 9, 0), at(3, 17, 0))
	list, err := f.sheets.ListEntries(ctx, empID, "")
	require.NoError(t, err)
	_, err = f.sheets.Submit(ctx, empID, list.PayPeriodID)
	require.NoError(t, err)

	f.work(t, empID, at(5, 9, 0), at(5, 11, 0))

	reviewed, err := f.sheets.Approve(ctx, ReviewInput{Actor: manager, EmployeeID: empID})
	require.NoError(t, err)
	require.Len(t, reviewed, 1)

	list, err = f.sheets.ListEntries(ctx, empID, list.PayPeriodID)
	require.NoError(t, err)
	require.Len(t, list.Entries, 2)
	require.Equal(t, EntryApproved, list.Entries[0].Status)
	require.Equal(t, EntryDraft, list.Entries[1].Status)
	require.Nil(t, list.Entries[1].ReviewerID)
}

func TestScenario_ClockOutAccrualFailureRollsBack(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.clock.set(at(3, 9, 0))
	_, err := f.clocks.ClockIn(ctx, empID)
	require.NoError(t, err)

	f.clock.set(at(4, 10, 0))
	_, err = f.clocks.ClockOut(ctx, empID)
	require.ErrorIs(t, err, ErrImplausibleInterval)
	require.ErrorIs(t, err, apperr.ErrDataIntegrity)

	status, err := f.clocks.GetStatus(ctx, empID)
	require.NoError(t, err)
	require.True(t, status.IsClockedIn)
	require.Empty(t, f.store.entries)
}

func TestScenario_AccruedHoursMatchIntervals(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	expected := decimal.Zero
	cursor := at(3, 6, 0)
	for i := 0; i < 20; i++ {
		length := time.Duration(17+i*13) * time.Minute
		in := cursor
		out := in.Add(length)
		f.work(t, empID, in, out)

		hours, err := IntervalHours(in, out)
		require.NoError(t, err)
		expected = expected.Add(hours)
		cursor = out.Add(time.Duration(5+i) * time.Minute)
	}

	list, err := f.sheets.ListEntries(ctx, empID, "")
	require.NoError(t, err)
	require.True(t, expected.Equal(list.TotalHours), "expected %s, got %s", expected, list.TotalHours)
}

func TestScenario_ManagerOnlyOperations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	employeeActor := apperr.Actor{EmployeeID: empID}

	_, err := f.sheets.Approve(ctx, ReviewInput{Actor: employeeActor, EmployeeID: empID})
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.sheets.Deny(ctx, ReviewInput{Actor: employeeActor, EmployeeID: empID})
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.sheets.ListWeekly(ctx, employeeActor, "")
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.sheets.Rebuild(ctx, employeeActor, empID, "")
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestScenario_ApproveWithNothingSubmitted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.work(t, empID, at(3, 9, 0), at(3, 17, 0))

	_, err := f.sheets.Approve(ctx, ReviewInput{Actor: manager, EmployeeID: empID})
	require.ErrorIs(t, err, ErrNothingToReview)
	require.ErrorIs(t, err, apperr.ErrIllegalState)
	require.Empty(t, f.store.notifications)
	require.Empty(t, f.store.weekly)
}

func TestScenario_SubmitUnknownPeriod(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.sheets.Submit(context.Background(), empID, "11111111-2222-4333-8444-555555555555")
	require.ErrorIs(t, err, payperiod.ErrPeriodNotFound)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}
