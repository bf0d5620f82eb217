package models

import "time"

// User keeps per-user reminder preferences and activity info.
type User struct {
	ID              int64     `db:"id"               json:"id"`
	Username        string    `db:"username"         json:"username"`
	FirstName       string    `db:"first_name"       json:"first_name"`
	LastName        string    `db:"last_name"        json:"last_name"`
	Settings        string    `db:"settings"         json:"settings"`      // free-form JSON blob
	ReminderTime    string    `db:"reminder_time"    json:"reminder_time"` // "HH:MM"
	ReminderEnabled bool      `db:"reminder_enabled" json:"reminder_enabled"`
	CreatedAt       time.Time `db:"created_at"       json:"created_at"`
	LastActivity    time.Time `db:"last_activity"    json:"last_activity"`
}

// Plan is the single plan a user keeps for a calendar date
// (by convention "tomorrow" at creation time).
type Plan struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	Text        string     `db:"plan_text"`
	Date        string     `db:"plan_date"` // YYYY-MM-DD
	Priority    int        `db:"priority"`
	Category    string     `db:"category"`
	Notes       string     `db:"notes"`
	Completed   bool       `db:"completed"`
	CompletedAt *time.Time `db:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Repeat types for reminders.
const (
	RepeatNone    = "none"
	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
)

// Reminder is one scheduled firing. Recurring reminders get a fresh row
// per occurrence; a sent row is never mutated again.
type Reminder struct {
	ID         int64  `db:"id"`
	UserID     int64  `db:"user_id"`
	PlanID     *int64 `db:"plan_id,omitempty"`
	Date       string `db:"reminder_date"` // YYYY-MM-DD
	Time       string `db:"reminder_time"` // "HH:MM"
	Message    string `db:"message"`
	RepeatType string `db:"repeat_type"`
	Sent       bool   `db:"sent"`

	// PlanText is filled by queries joining tomorrow_plans.
	PlanText string `db:"plan_text"`
}

// Statistic counts plan activity per (user, date).
type Statistic struct {
	ID             int64  `db:"id"`
	UserID         int64  `db:"user_id"`
	Date           string `db:"date"` // YYYY-MM-DD
	PlansCreated   int    `db:"plans_created"`
	PlansCompleted int    `db:"plans_completed"`
}
