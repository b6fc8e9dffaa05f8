package models

import "time"

// ActivityType defines the kinds of scheduled work.
type ActivityType string

const (
	ActivityCall    ActivityType = "call"
	ActivityEmail   ActivityType = "email"
	ActivityMeeting ActivityType = "meeting"
	ActivityTask    ActivityType = "task"
	ActivityNote    ActivityType = "note"
)

type ActivityTypeInfo struct {
	ID   ActivityType `json:"id"`
	Name string       `json:"name"`
}

var ActivityTypes = []ActivityTypeInfo{
	{ID: ActivityCall, Name: "Phone Call"},
	{ID: ActivityEmail, Name: "Email"},
	{ID: ActivityMeeting, Name: "Meeting"},
	{ID: ActivityTask, Name: "Task"},
	{ID: ActivityNote, Name: "Note"},
}

func (t ActivityType) Valid() bool {
	for _, at := range ActivityTypes {
		if at.ID == t {
			return true
		}
	}
	return false
}

// Activity is a task/call/email/meeting/note tied to a contact and optionally a deal.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	ContactID   string       `json:"contactId,omitempty"`
	DealID      string       `json:"dealId,omitempty"`
	DueDate     time.Time    `json:"dueDate"`
	Completed   bool         `json:"completed"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Overdue reports whether the activity is still open past its due date.
func (a *Activity) Overdue(now time.Time) bool {
	return !a.Completed && a.DueDate.Before(now)
}

// ActivityFilter selects a tab of the activity tracker.
type ActivityFilter string

const (
	FilterAll       ActivityFilter = "all"
	FilterPending   ActivityFilter = "pending"
	FilterCompleted ActivityFilter = "completed"
	FilterOverdue   ActivityFilter = "overdue"
)

func (f ActivityFilter) Valid() bool {
	switch f {
	case FilterAll, FilterPending, FilterCompleted, FilterOverdue:
		return true
	}
	return false
}

type ActivityStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}
