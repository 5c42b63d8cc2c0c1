package domain

import (
	"fmt"
	"sort"
	"time"
)

// Status enumerates the lifecycle states of an activity.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusCompleted  Status = "completed"
	StatusMissing    Status = "missing"
)

// transitions is the single source of truth for allowed status changes.
// StatusCompleted is terminal; missing never reverts to incomplete.
var transitions = map[Status]map[Status]bool{
	StatusIncomplete: {StatusCompleted: true, StatusMissing: true},
	StatusMissing:    {StatusCompleted: true},
	StatusCompleted:  {},
}

// displayRank surfaces actionable statuses before resolved ones when listing.
var displayRank = map[Status]int{
	StatusIncomplete: 0,
	StatusMissing:    1,
	StatusCompleted:  2,
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether moving from s to the target status is allowed.
func (s Status) CanTransition(to Status) bool {
	return transitions[s][to]
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	t time.Time
}

// NewDate truncates the given instant to its calendar date.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return NewDate(parsed), nil
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Time exposes the underlying midnight-UTC instant for storage drivers.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date %q", string(data))
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Activity represents a user-owned daily activity record.
type Activity struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Label     string    `json:"label"`
	DueDate   Date      `json:"due_date"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Activity) IsCompleted() bool {
	return a != nil && a.Status == StatusCompleted
}

// Overdue reports whether the activity is still actionable past its due date.
func (a *Activity) Overdue(today Date) bool {
	return a != nil && a.Status == StatusIncomplete && a.DueDate.Before(today)
}

// SortActivities orders activities by due date ascending, ties broken by
// status priority so actionable items surface before resolved ones. This is
// the display-ordering contract for listings, not a storage guarantee.
func SortActivities(activities []Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		if !activities[i].DueDate.Equal(activities[j].DueDate) {
			return activities[i].DueDate.Before(activities[j].DueDate)
		}
		return displayRank[activities[i].Status] < displayRank[activities[j].Status]
	})
}
