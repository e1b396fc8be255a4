package clock

import "time"

// EventType は打刻の種別です。
type EventType string

const (
	EventIn  EventType = "IN"
	EventOut EventType = "OUT"
)

// Event は追記専用の打刻記録です。書き込み後は変更しません。
type Event struct {
	ID         string
	EmployeeID string
	Type       EventType
	OccurredAt time.Time
}

// Interval は対応する IN と OUT の組です。
type Interval struct {
	EmployeeID string
	In         Event
	Out        Event
}

// Duration は IN から OUT までの経過時間です。
func (i Interval) Duration() time.Duration {
	return i.Out.OccurredAt.Sub(i.In.OccurredAt)
}

// Status は打刻状態の参照結果です。
type Status struct {
	IsClockedIn  bool
	LastEvent    *Event
	RecentEvents []*Event
}
