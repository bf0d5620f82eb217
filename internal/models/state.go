package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Step is the active wizard stage of a session.
type Step int

const (
	StepIdle Step = iota
	StepAwaitingPlanText
	StepAwaitingReminderTime
	StepAwaitingAmount
	StepSelectingFromCurrency
	StepSelectingToCurrency
	StepSelectingReminderDate
	StepSelectingReminderTime
	StepAwaitingReminderMessage
	StepAwaitingRatesAmount
)

// Session is transient per-user conversation state. It never touches the
// store; a restart drops all in-flight wizards.
type Session struct {
	UserID       int64
	SessionID    string // uuid, rotated on every new session
	Step         Step
	Amount       decimal.Decimal
	FromCurrency string
	ToCurrency   string
	ReminderDate string // YYYY-MM-DD
	ReminderTime string // "HH:MM"
	LastActivity time.Time
}

// Reset clears the wizard step and its working data, keeping identity.
func (s *Session) Reset() {
	s.Step = StepIdle
	s.Amount = decimal.Zero
	s.FromCurrency = ""
	s.ToCurrency = ""
	s.ReminderDate = ""
	s.ReminderTime = ""
}

// Enter switches to a new wizard step, dropping the previous step's data.
func (s *Session) Enter(step Step) {
	s.Reset()
	s.Step = step
}
