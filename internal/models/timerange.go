package models

import (
	"fmt"
	"time"
)

// TimeRange is an inclusive span of modification times.
type TimeRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// NewTimeRange validates that start is not after end.
func NewTimeRange(start, end time.Time) (*TimeRange, error) {
	if start.After(end) {
		return nil, fmt.Errorf("start time %v cannot be after end time %v", start, end)
	}
	return &TimeRange{Start: start, End: end}, nil
}

// Since returns the range from now-d to now.
func Since(d time.Duration) *TimeRange {
	now := time.Now()
	return &TimeRange{Start: now.Add(-d), End: now}
}

// Extend widens the range to include t.
func (tr *TimeRange) Extend(t time.Time) {
	if t.Before(tr.Start) {
		tr.Start = t
	}
	if t.After(tr.End) {
		tr.End = t
	}
}

func (tr *TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// Contains reports whether t lies within the range, bounds included.
func (tr *TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && !t.After(tr.End)
}

func (tr *TimeRange) IsZero() bool {
	return tr.Start.IsZero() && tr.End.IsZero()
}

func (tr *TimeRange) String() string {
	if tr == nil || tr.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s .. %s", tr.Start.Format(time.DateTime), tr.End.Format(time.DateTime))
}
