package session

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"telegram-plan-bot/internal/models"
)

func TestObtainCreatesIdleSession(t *testing.T) {
	m := NewManager()

	if m.Exists(42) {
		t.Fatal("session should not exist before Obtain")
	}

	st := m.Obtain(42)
	if !m.Exists(42) {
		t.Fatal("session should exist after Obtain")
	}
	if st.Session.Step != models.StepIdle {
		t.Errorf("new session step = %d, want StepIdle", st.Session.Step)
	}
	if st.Session.SessionID == "" {
		t.Error("new session must carry a non-empty session id")
	}

	again := m.Obtain(42)
	if again != st {
		t.Error("Obtain must return the same state for the same user")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestRemoveRotatesSessionID(t *testing.T) {
	m := NewManager()
	first := m.Obtain(7).Session.SessionID
	m.Remove(7)
	second := m.Obtain(7).Session.SessionID
	if first == second {
		t.Error("a recreated session must get a fresh session id")
	}
}

func TestSweepEvictsOnlyStale(t *testing.T) {
	m := NewManager()

	stale := m.Obtain(1)
	stale.Session.LastActivity = time.Now().Add(-2 * time.Hour)
	fresh := m.Obtain(2)
	fresh.Session.LastActivity = time.Now()

	if n := m.Sweep(time.Hour); n != 1 {
		t.Fatalf("Sweep evicted %d sessions, want 1", n)
	}
	if m.Exists(1) {
		t.Error("stale session should be evicted")
	}
	if !m.Exists(2) {
		t.Error("fresh session should survive the sweep")
	}
}

func TestTrackMessageCap(t *testing.T) {
	st := &State{}
	for id := 1; id <= maxTrackedMessages+5; id++ {
		st.TrackMessage(id)
	}

	drained := st.DrainMessages(0)
	if len(drained) != maxTrackedMessages {
		t.Fatalf("drained %d ids, want %d", len(drained), maxTrackedMessages)
	}
	if drained[0] != 6 {
		t.Errorf("oldest kept id = %d, want 6", drained[0])
	}
	if got := st.DrainMessages(0); len(got) != 0 {
		t.Errorf("second drain returned %d ids, want 0", len(got))
	}
}

func TestDrainMessagesKeepsOne(t *testing.T) {
	st := &State{}
	st.TrackMessage(10)
	st.TrackMessage(11)
	st.TrackMessage(12)

	drained := st.DrainMessages(11)
	if len(drained) != 2 {
		t.Fatalf("drained %d ids, want 2", len(drained))
	}
	rest := st.DrainMessages(0)
	if len(rest) != 1 || rest[0] != 11 {
		t.Errorf("kept ids = %v, want [11]", rest)
	}
}

func TestSessionLifecycleLogsSessionID(t *testing.T) {
	var buf bytes.Buffer
	old := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(old) })

	m := NewManager()
	st := m.Obtain(5)
	id := st.Session.SessionID

	if !strings.Contains(buf.String(), id) {
		t.Errorf("session creation log is missing the session id %s:\n%s", id, buf.String())
	}

	buf.Reset()
	st.Session.LastActivity = time.Now().Add(-2 * time.Hour)
	if n := m.Sweep(time.Hour); n != 1 {
		t.Fatalf("Sweep evicted %d sessions, want 1", n)
	}
	if !strings.Contains(buf.String(), id) {
		t.Errorf("eviction log is missing the session id %s:\n%s", id, buf.String())
	}
}

func TestEnterDropsPreviousStepData(t *testing.T) {
	s := models.Session{
		Step:         models.StepSelectingToCurrency,
		Amount:       decimal.NewFromInt(100),
		FromCurrency: "USD",
	}

	s.Enter(models.StepSelectingReminderDate)

	if s.Step != models.StepSelectingReminderDate {
		t.Errorf("step = %d, want StepSelectingReminderDate", s.Step)
	}
	if s.FromCurrency != "" || !s.Amount.IsZero() {
		t.Error("Enter must clear the previous wizard's data")
	}
}
