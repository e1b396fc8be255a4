// Package workcal は瞬間から暦日・週を解決する唯一の場所です。
// 勤務日の帰属や期間の境界はすべてここを経由して計算します。
package workcal

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidWeekday は週の開始曜日が解釈できないことを表します。
var ErrInvalidWeekday = errors.New("workcal: invalid weekday")

// Date はタイムゾーンを持たない暦日です。
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate は正規化された Date を返します。
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf は t が持つロケーション上の日付を取り出します。
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate は YYYY-MM-DD 形式の文字列を解釈します。
func ParseDate(raw string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("workcal: parse date %q: %w", raw, err)
	}
	return DateOf(t), nil
}

// Time は UTC の 0 時として Date を返します。SQL の DATE 型との受け渡しに使います。
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In は loc における d の 0 時を返します。
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays は n 日後の Date を返します。
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }
func (d Date) After(other Date) bool  { return d.Time().After(other.Time()) }
func (d Date) Equal(other Date) bool  { return d == other }

// IsZero は未設定の Date かを返します。
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Date) String() string { return d.Time().Format(dateLayout) }

// Window は両端を含む暦日の範囲です。
type Window struct {
	Start Date
	End   Date
}

// Contains は date が範囲内かを返します。
func (w Window) Contains(date Date) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

func (w Window) String() string {
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// WeekLength は 1 期間の日数です。
const WeekLength = 7

// Calendar は運用タイムゾーンと週の開始曜日を保持します。
type Calendar struct {
	Location  *time.Location
	WeekStart time.Weekday
}

// NewCalendar は IANA タイムゾーン名と曜日名から Calendar を構築します。
func NewCalendar(timezone, weekStart string) (Calendar, error) {
	name := strings.TrimSpace(timezone)
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("workcal: load location %q: %w", name, err)
	}

	weekday := time.Monday
	if strings.TrimSpace(weekStart) != "" {
		weekday, err = ParseWeekday(weekStart)
		if err != nil {
			return Calendar{}, err
		}
	}

	return Calendar{Location: loc, WeekStart: weekday}, nil
}

// ParseWeekday は英語の曜日名 (大文字小文字を区別しない) を解釈します。
func ParseWeekday(raw string) (time.Weekday, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for day := time.Sunday; day <= time.Saturday; day++ {
		name := strings.ToLower(day.String())
		if value == name || value == name[:3] {
			return day, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: %q", ErrInvalidWeekday, raw)
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// CivilDate は瞬間 t を運用タイムゾーンに変換した暦日を返します。
// UTC の日付は使いません。
func (c Calendar) CivilDate(t time.Time) Date {
	return DateOf(t.In(c.location()))
}

// WeekOf は date を含む 7 日間の範囲を返します。
func (c Calendar) WeekOf(date Date) Window {
	offset := (int(date.Weekday()) - int(c.WeekStart) + WeekLength) % WeekLength
	start := date.AddDays(-offset)
	return Window{Start: start, End: start.AddDays(WeekLength - 1)}
}

// WeekContaining は瞬間 t を含む週を返します。
func (c Calendar) WeekContaining(t time.Time) Window {
	return c.WeekOf(c.CivilDate(t))
}

// Bounds は範囲を運用タイムゾーン上の半開区間 [from, to) の瞬間に変換します。
func (c Calendar) Bounds(w Window) (time.Time, time.Time) {
	loc := c.location()
	return w.Start.In(loc), w.End.AddDays(1).In(loc)
}
