package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"telegram-plan-bot/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func saveTestUser(t *testing.T, db *DB, id int64) {
	t.Helper()
	if err := db.SaveUser(&models.User{ID: id, Username: "tester", FirstName: "Тест"}); err != nil {
		t.Fatal(err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t) // New already ran Migrate once
	if err := Migrate(db.DB); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	var version int
	if err := db.QueryRow(`SELECT version FROM db_version ORDER BY version DESC LIMIT 1`).Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}
}

func TestSaveUserKeepsReminderPrefs(t *testing.T) {
	db := newTestDB(t)
	saveTestUser(t, db, 1)

	if err := db.UpdateReminderSettings(1, "09:30", false); err != nil {
		t.Fatal(err)
	}
	// A later /start must not reset what the user configured.
	if err := db.SaveUser(&models.User{ID: 1, Username: "renamed"}); err != nil {
		t.Fatal(err)
	}

	u, err := db.GetUser(1)
	if err != nil {
		t.Fatal(err)
	}
	if u == nil {
		t.Fatal("user not found after upsert")
	}
	if u.Username != "renamed" {
		t.Errorf("username = %q, want %q", u.Username, "renamed")
	}
	if u.ReminderTime != "09:30" || u.ReminderEnabled {
		t.Errorf("reminder prefs = (%q, %v), want (09:30, false)", u.ReminderTime, u.ReminderEnabled)
	}
}

func TestGetUserMissing(t *testing.T) {
	db := newTestDB(t)
	u, err := db.GetUser(999)
	if err != nil {
		t.Fatal(err)
	}
	if u != nil {
		t.Errorf("GetUser for unknown id = %+v, want nil", u)
	}
}

func TestSavePlanUpsertsPerDate(t *testing.T) {
	db := newTestDB(t)
	saveTestUser(t, db, 1)
	date := "2026-09-01"

	id1, updated, err := db.SavePlan(1, "купити молоко", date, true, "07:00")
	if err != nil {
		t.Fatal(err)
	}
	if updated {
		t.Error("first save must report a new plan")
	}

	id2, updated, err := db.SavePlan(1, "купити хліб", date, true, "07:00")
	if err != nil {
		t.Fatal(err)
	}
	if !updated {
		t.Error("second save for the same date must report an update")
	}
	if id1 != id2 {
		t.Errorf("plan ids differ: %d vs %d, want the same row", id1, id2)
	}

	p, err := db.GetPlan(1, date)
	if err != nil {
		t.Fatal(err)
	}
	if p == nil || p.Text != "купити хліб" {
		t.Fatalf("plan = %+v, want text %q", p, "купити хліб")
	}

	// Only the first save counts as created; the rewrite does not.
	stats, err := db.GetStatistics(1, 10000)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].PlansCreated != 1 {
		t.Errorf("statistics = %+v, want one row with plans_created=1", stats)
	}
}

func TestSavePlanSchedulesReminder(t *testing.T) {
	db := newTestDB(t)
	saveTestUser(t, db, 1)
	date := "2026-09-01"

	planID, _, err := db.SavePlan(1, "план", date, true, "08:15")
	if err != nil {
		t.Fatal(err)
	}

	reminders, err := db.ListReminders(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(reminders) != 1 {
		t.Fatalf("got %d reminders, want 1", len(reminders))
	}
	r := reminders[0]
	if r.PlanID == nil || *r.PlanID != planID {
		t.Errorf("reminder plan id = %v, want %d", r.PlanID, planID)
	}
	if r.Date != date || r.Time != "08:15" {
		t.Errorf("reminder at %s %s, want %s 08:15", r.Date, r.Time, date)
	}
	if !strings.Contains(r.Message, date) {
		t.Errorf("reminder message %q should mention the plan date", r.Message)
	}

	// Rewriting the plan must not pile up a second reminder.
	if _, _, err := db.SavePlan(1, "інший план", date, true, "08:15"); err != nil {
		t.Fatal(err)
	}
	reminders, _ = db.ListReminders(1)
	if len(reminders) != 1 {
		t.Errorf("got %d reminders after rewrite, want 1", len(reminders))
	}
}

func TestSavePlanWithoutReminder(t *testing.T) {
	db := newTestDB(t)
	saveTestUser(t, db, 1)

	if _, _, err := db.SavePlan(1, "план", "2026-09-01", false, "07:00"); err != nil {
		t.Fatal(err)
	}
	reminders, err := db.ListReminders(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(reminders) != 0 {
		t.Errorf("got %d reminders with reminders disabled, want 0", len(reminders))
	}
}

func TestMarkPlanCompletedOnce(t *testing.T) {
	db := newTestDB(t)
	saveTestUser(t, db, 1)

	planID, _, err := db.SavePlan(1, "план", "2026-09-01", false, "07:00")
	if err != nil {
		t.Fatal(err)
	}

	ok, err := db.MarkPlanCompleted(planID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("first completion must succeed")
	}

	ok, err = db.MarkPlanCompleted(planID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("second completion must be a no-op")
	}

	stats, err := db.GetStatistics(1, 10000)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].PlansCompleted != 1 {
		t.Errorf("statistics = %+v, want plans_completed=1", stats)
	}

	p, _ := db.GetPlan(1, "2026-09-01")
	if p == nil || !p.Completed || p.CompletedAt == nil {
		t.Errorf("plan = %+v, want completed with a timestamp", p)
	}
}

func TestMarkPlanCompletedWrongUser(t *testing.T) {
	db := newTestDB(t)
	saveTestUser(t, db, 1)

	planID, _, err := db.SavePlan(1, "план", "2026-09-01", false, "07:00")
	if err != nil {
		t.Fatal(err)
	}
	ok, err := db.MarkPlanCompleted(planID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("another user's plan must not be completable")
	}
}

func TestDueReminders(t *testing.T) {
	db := newTestDB(t)
	saveTestUser(t, db, 1)
	saveTestUser(t, db, 2)
	if err := db.UpdateReminderSettings(2, "07:00", false); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	today := now.Format("2006-01-02")

	mk := func(userID int64, date, hm string) int64 {
		id, err := db.CreateReminder(&models.Reminder{
			UserID: userID, Date: date, Time: hm, Message: "тест",
		})
		if err != nil {
			t.Fatal(err)
		}
		return id
	}

	pastID := mk(1, "2026-08-25", "09:00") // missed during downtime
	dueID := mk(1, today, "11:59")
	mk(1, today, "12:01")        // later today, not yet due
	mk(1, "2026-09-02", "09:00") // tomorrow
	mk(2, "2026-08-25", "09:00") // owner disabled reminders

	due, err := db.DueReminders(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 2 {
		t.Fatalf("got %d due reminders, want 2: %+v", len(due), due)
	}
	got := map[int64]bool{}
	for _, r := range due {
		got[r.ID] = true
	}
	if !got[pastID] || !got[dueID] {
		t.Errorf("due ids = %v, want {%d, %d}", got, pastID, dueID)
	}

	if err := db.MarkReminderSent(dueID); err != nil {
		t.Fatal(err)
	}
	due, err = db.DueReminders(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 || due[0].ID != pastID {
		t.Errorf("after send got %+v, want only #%d", due, pastID)
	}
}

func TestDueRemindersCarryPlanText(t *testing.T) {
	db := newTestDB(t)
	saveTestUser(t, db, 1)

	if _, _, err := db.SavePlan(1, "купити молоко", "2026-08-30", true, "07:00"); err != nil {
		t.Fatal(err)
	}

	due, err := db.DueReminders(time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 {
		t.Fatalf("got %d due reminders, want 1", len(due))
	}
	if due[0].PlanText != "купити молоко" {
		t.Errorf("plan text = %q, want %q", due[0].PlanText, "купити молоко")
	}
}

func TestCreateReminderDefaultsRepeat(t *testing.T) {
	db := newTestDB(t)
	saveTestUser(t, db, 1)

	if _, err := db.CreateReminder(&models.Reminder{
		UserID: 1, Date: "2026-09-01", Time: "10:00", Message: "тест",
	}); err != nil {
		t.Fatal(err)
	}
	reminders, err := db.ListReminders(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(reminders) != 1 || reminders[0].RepeatType != models.RepeatNone {
		t.Errorf("reminders = %+v, want one with repeat %q", reminders, models.RepeatNone)
	}
}

func TestDeleteReminderOwnership(t *testing.T) {
	db := newTestDB(t)
	saveTestUser(t, db, 1)

	id, err := db.CreateReminder(&models.Reminder{
		UserID: 1, Date: "2026-09-01", Time: "10:00", Message: "тест",
	})
	if err != nil {
		t.Fatal(err)
	}

	ok, err := db.DeleteReminder(id, 2)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("deleting another user's reminder must fail")
	}

	ok, err = db.DeleteReminder(id, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("owner delete must succeed")
	}
}
