package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"telegram-plan-bot/internal/models"
)

type DB struct{ *sql.DB }

const timeLayout = "2006-01-02 15:04:05"

func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

// CurrentDate returns today's calendar date in server-local time.
func CurrentDate() string {
	return time.Now().Format("2006-01-02")
}

// TomorrowDate returns tomorrow's calendar date in server-local time.
func TomorrowDate() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func parseTime(s string) time.Time {
	t, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

// ---------- users -----------------------------------------------------------

// SaveUser upserts identity fields and bumps last_activity, keeping the
// user's reminder preferences intact.
func (d *DB) SaveUser(u *models.User) error {
	_, err := d.Exec(`
        INSERT INTO users (id, username, first_name, last_name)
        VALUES (?,?,?,?)
        ON CONFLICT(id) DO UPDATE SET username=excluded.username,
            first_name=excluded.first_name,
            last_name=excluded.last_name,
            last_activity=CURRENT_TIMESTAMP
    `, u.ID, u.Username, u.FirstName, u.LastName)
	return err
}

func (d *DB) GetUser(userID int64) (*models.User, error) {
	var u models.User
	var enabled int
	var createdAt, lastActivity string

	err := d.QueryRow(`
        SELECT id, username, first_name, last_name, settings,
               reminder_time, reminder_enabled, created_at, last_activity
        FROM users WHERE id=?`, userID,
	).Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Settings,
		&u.ReminderTime, &enabled, &createdAt, &lastActivity)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.ReminderEnabled = enabled == 1
	u.CreatedAt = parseTime(createdAt)
	u.LastActivity = parseTime(lastActivity)
	return &u, nil
}

func (d *DB) UpdateUserActivity(userID int64) error {
	_, err := d.Exec(`UPDATE users SET last_activity=CURRENT_TIMESTAMP WHERE id=?`, userID)
	return err
}

func (d *DB) UpdateReminderSettings(userID int64, reminderTime string, enabled bool) error {
	flag := 0
	if enabled {
		flag = 1
	}
	_, err := d.Exec(`
        UPDATE users SET reminder_time=?, reminder_enabled=? WHERE id=?
    `, reminderTime, flag, userID)
	return err
}

// ---------- plans -----------------------------------------------------------

// SavePlan writes the user's plan for a date. At most one plan exists per
// (user, date): an existing row is updated in place. A brand-new plan also
// bumps the created counter and, when the user has reminders enabled,
// schedules the daily reminder, all in one transaction.
func (d *DB) SavePlan(userID int64, text, date string, reminderEnabled bool, reminderTime string) (planID int64, updated bool, err error) {
	tx, err := d.Begin()
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.QueryRow(`SELECT id FROM tomorrow_plans WHERE user_id=? AND plan_date=?`,
		userID, date).Scan(&existingID)
	switch {
	case err == nil:
		_, err = tx.Exec(`
            UPDATE tomorrow_plans
            SET plan_text=?, updated_at=CURRENT_TIMESTAMP
            WHERE id=?`, text, existingID)
		if err != nil {
			return 0, false, err
		}
		planID, updated = existingID, true

	case errors.Is(err, sql.ErrNoRows):
		res, e := tx.Exec(`
            INSERT INTO tomorrow_plans (user_id, plan_text, plan_date)
            VALUES (?,?,?)`, userID, text, date)
		if e != nil {
			return 0, false, e
		}
		planID, _ = res.LastInsertId()

		if e := bumpStatistic(tx, userID, date, "plans_created"); e != nil {
			return 0, false, e
		}
		if reminderEnabled {
			_, e = tx.Exec(`
                INSERT INTO reminders (user_id, plan_id, reminder_date, reminder_time, message, repeat_type)
                VALUES (?,?,?,?,?,?)`,
				userID, planID, date, reminderTime,
				"Не забудь виконати свої плани на "+date+"! 📝", models.RepeatNone)
			if e != nil {
				return 0, false, e
			}
		}

	default:
		return 0, false, err
	}

	return planID, updated, tx.Commit()
}

func (d *DB) GetPlan(userID int64, date string) (*models.Plan, error) {
	var p models.Plan
	var completed int
	var completedAt sql.NullString
	var createdAt, updatedAt string
	var notes sql.NullString

	err := d.QueryRow(`
        SELECT id, user_id, plan_text, plan_date, priority, category, notes,
               completed, completed_at, created_at, updated_at
        FROM tomorrow_plans WHERE user_id=? AND plan_date=?
        ORDER BY priority DESC, created_at DESC LIMIT 1`, userID, date,
	).Scan(&p.ID, &p.UserID, &p.Text, &p.Date, &p.Priority, &p.Category, &notes,
		&completed, &completedAt, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Notes = notes.String
	p.Completed = completed == 1
	if completedAt.Valid {
		t := parseTime(completedAt.String)
		p.CompletedAt = &t
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func (d *DB) ListPlans(userID int64, limit int) ([]models.Plan, error) {
	rows, err := d.Query(`
        SELECT id, user_id, plan_text, plan_date, priority, completed
        FROM tomorrow_plans
        WHERE user_id=?
        ORDER BY plan_date DESC, priority DESC, created_at DESC
        LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Plan
	for rows.Next() {
		var p models.Plan
		var completed int
		if err := rows.Scan(&p.ID, &p.UserID, &p.Text, &p.Date, &p.Priority, &completed); err != nil {
			return nil, err
		}
		p.Completed = completed == 1
		res = append(res, p)
	}
	return res, rows.Err()
}

// MarkPlanCompleted flips completed once and bumps the completed counter.
// Returns false when the plan is missing or already completed.
func (d *DB) MarkPlanCompleted(planID, userID int64) (bool, error) {
	tx, err := d.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
        UPDATE tomorrow_plans
        SET completed=1, completed_at=CURRENT_TIMESTAMP
        WHERE id=? AND user_id=? AND completed=0`, planID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, tx.Commit()
	}

	var date string
	if err := tx.QueryRow(`SELECT plan_date FROM tomorrow_plans WHERE id=?`, planID).Scan(&date); err != nil {
		return false, err
	}
	if err := bumpStatistic(tx, userID, date, "plans_completed"); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (d *DB) DeletePlan(planID, userID int64) (bool, error) {
	res, err := d.Exec(`DELETE FROM tomorrow_plans WHERE id=? AND user_id=?`, planID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ---------- statistics ------------------------------------------------------

// bumpStatistic replaces the sqlite triggers the schema used to carry:
// counters update in the same transaction as the plan write.
func bumpStatistic(tx *sql.Tx, userID int64, date, column string) error {
	var stmt string
	switch column {
	case "plans_created":
		stmt = `
            INSERT INTO statistics (user_id, date, plans_created)
            VALUES (?,?,1)
            ON CONFLICT(user_id, date) DO UPDATE SET plans_created=plans_created+1`
	case "plans_completed":
		stmt = `
            INSERT INTO statistics (user_id, date, plans_completed)
            VALUES (?,?,1)
            ON CONFLICT(user_id, date) DO UPDATE SET plans_completed=plans_completed+1`
	default:
		return errors.New("storage: unknown statistic column " + column)
	}
	_, err := tx.Exec(stmt, userID, date)
	return err
}

func (d *DB) GetStatistics(userID int64, days int) ([]models.Statistic, error) {
	startDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	rows, err := d.Query(`
        SELECT id, user_id, date, plans_created, plans_completed
        FROM statistics
        WHERE user_id=? AND date>=?
        ORDER BY date DESC`, userID, startDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Statistic
	for rows.Next() {
		var s models.Statistic
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.PlansCreated, &s.PlansCompleted); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// ---------- reminders -------------------------------------------------------

func (d *DB) CreateReminder(r *models.Reminder) (int64, error) {
	if r.RepeatType == "" {
		r.RepeatType = models.RepeatNone
	}
	res, err := d.Exec(`
        INSERT INTO reminders (user_id, plan_id, reminder_date, reminder_time, message, repeat_type)
        VALUES (?,?,?,?,?,?)`,
		r.UserID, r.PlanID, r.Date, r.Time, r.Message, r.RepeatType)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DueReminders returns unsent reminders whose date+time has passed for
// users with reminders enabled. Past dates are included so firings missed
// by downtime still go out.
func (d *DB) DueReminders(now time.Time) ([]models.Reminder, error) {
	date := now.Format("2006-01-02")
	hm := now.Format("15:04")

	rows, err := d.Query(`
        SELECT r.id, r.user_id, r.plan_id, r.reminder_date, r.reminder_time,
               r.message, r.repeat_type, COALESCE(p.plan_text, '')
        FROM reminders r
        JOIN users u ON r.user_id = u.id
        LEFT JOIN tomorrow_plans p ON r.plan_id = p.id
        WHERE r.sent = 0
          AND u.reminder_enabled = 1
          AND (r.reminder_date < ? OR (r.reminder_date = ? AND r.reminder_time <= ?))
    `, date, date, hm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Reminder
	for rows.Next() {
		var r models.Reminder
		var planID sql.NullInt64
		if err := rows.Scan(&r.ID, &r.UserID, &planID, &r.Date, &r.Time,
			&r.Message, &r.RepeatType, &r.PlanText); err != nil {
			return nil, err
		}
		if planID.Valid {
			r.PlanID = &planID.Int64
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func (d *DB) MarkReminderSent(reminderID int64) error {
	_, err := d.Exec(`UPDATE reminders SET sent=1, sent_at=CURRENT_TIMESTAMP WHERE id=?`, reminderID)
	return err
}

func (d *DB) ListReminders(userID int64) ([]models.Reminder, error) {
	rows, err := d.Query(`
        SELECT r.id, r.user_id, r.plan_id, r.reminder_date, r.reminder_time,
               r.message, r.repeat_type, r.sent, COALESCE(p.plan_text, '')
        FROM reminders r
        LEFT JOIN tomorrow_plans p ON r.plan_id = p.id
        WHERE r.user_id = ?
        ORDER BY r.reminder_date DESC, r.reminder_time DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Reminder
	for rows.Next() {
		var r models.Reminder
		var planID sql.NullInt64
		var sent int
		if err := rows.Scan(&r.ID, &r.UserID, &planID, &r.Date, &r.Time,
			&r.Message, &r.RepeatType, &sent, &r.PlanText); err != nil {
			return nil, err
		}
		if planID.Valid {
			r.PlanID = &planID.Int64
		}
		r.Sent = sent == 1
		res = append(res, r)
	}
	return res, rows.Err()
}

func (d *DB) DeleteReminder(reminderID, userID int64) (bool, error) {
	res, err := d.Exec(`DELETE FROM reminders WHERE id=? AND user_id=?`, reminderID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
