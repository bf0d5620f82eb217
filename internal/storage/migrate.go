package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
)

// SchemaVersion is the version the code expects. Bump it together with a
// new migrateToVN step.
const SchemaVersion = 3

// Migrate brings the database up to SchemaVersion. Safe to run on every
// start: table creation is IF NOT EXISTS and re-adding an existing column
// is a no-op. Any other failure aborts startup.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS db_version (
            version INTEGER PRIMARY KEY,
            applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`); err != nil {
		return fmt.Errorf("create db_version: %w", err)
	}

	current, err := currentVersion(db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if err := createTables(db); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	if current >= SchemaVersion {
		return nil
	}
	log.Printf("🔄 Міграція БД з версії %d до %d", current, SchemaVersion)

	steps := []struct {
		version int
		apply   func(*sql.DB) error
	}{
		{1, migrateToV1},
		{2, migrateToV2},
		{3, migrateToV3},
	}
	for _, s := range steps {
		if current >= s.version {
			continue
		}
		if err := s.apply(db); err != nil {
			return fmt.Errorf("migrate to v%d: %w", s.version, err)
		}
	}

	_, err = db.Exec(`INSERT OR REPLACE INTO db_version (version) VALUES (?)`, SchemaVersion)
	return err
}

func currentVersion(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow(`SELECT version FROM db_version ORDER BY version DESC LIMIT 1`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return v, err
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY,
            username TEXT DEFAULT '',
            first_name TEXT DEFAULT '',
            last_name TEXT DEFAULT '',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            last_activity DATETIME DEFAULT CURRENT_TIMESTAMP,
            settings TEXT DEFAULT '{}',
            reminder_time TEXT DEFAULT '07:00',
            reminder_enabled INTEGER DEFAULT 1
        )`,
		`CREATE TABLE IF NOT EXISTS tomorrow_plans (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            plan_text TEXT NOT NULL,
            plan_date TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            completed INTEGER DEFAULT 0,
            completed_at DATETIME,
            priority INTEGER DEFAULT 1,
            category TEXT DEFAULT 'general',
            notes TEXT,
            FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
        )`,
		`CREATE TABLE IF NOT EXISTS statistics (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            date TEXT NOT NULL,
            plans_created INTEGER DEFAULT 0,
            plans_completed INTEGER DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(user_id, date),
            FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
        )`,
		`CREATE TABLE IF NOT EXISTS reminders (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            plan_id INTEGER,
            reminder_date TEXT NOT NULL,
            reminder_time TEXT NOT NULL,
            message TEXT,
            repeat_type TEXT DEFAULT 'none',
            sent INTEGER DEFAULT 0,
            sent_at DATETIME
        )`,
		`CREATE INDEX IF NOT EXISTS idx_plans_user_date ON tomorrow_plans(user_id, plan_date)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_created ON tomorrow_plans(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_users_activity ON users(last_activity DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_statistics_user_date ON statistics(user_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_date_time ON reminders(reminder_date, reminder_time)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_sent ON reminders(sent)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// v1: plan metadata columns for databases created before the schema grew.
func migrateToV1(db *sql.DB) error {
	cols := []string{
		"ALTER TABLE tomorrow_plans ADD COLUMN created_at DATETIME",
		"ALTER TABLE tomorrow_plans ADD COLUMN updated_at DATETIME",
		"ALTER TABLE tomorrow_plans ADD COLUMN completed_at DATETIME",
		"ALTER TABLE tomorrow_plans ADD COLUMN priority INTEGER DEFAULT 1",
		"ALTER TABLE tomorrow_plans ADD COLUMN category TEXT DEFAULT 'general'",
		"ALTER TABLE tomorrow_plans ADD COLUMN notes TEXT",
	}
	for _, stmt := range cols {
		if err := addColumn(db, stmt); err != nil {
			return err
		}
	}
	// backfill rows that predate the timestamp columns
	if _, err := db.Exec(`UPDATE tomorrow_plans SET created_at=CURRENT_TIMESTAMP WHERE created_at IS NULL`); err != nil {
		return err
	}
	_, err := db.Exec(`UPDATE tomorrow_plans SET updated_at=CURRENT_TIMESTAMP WHERE updated_at IS NULL`)
	return err
}

// v2: per-user settings blob.
func migrateToV2(db *sql.DB) error {
	return addColumn(db, "ALTER TABLE users ADD COLUMN settings TEXT DEFAULT '{}'")
}

// v3: reminder preferences.
func migrateToV3(db *sql.DB) error {
	cols := []string{
		"ALTER TABLE users ADD COLUMN reminder_time TEXT DEFAULT '07:00'",
		"ALTER TABLE users ADD COLUMN reminder_enabled INTEGER DEFAULT 1",
	}
	for _, stmt := range cols {
		if err := addColumn(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

// addColumn runs an ALTER TABLE ... ADD COLUMN, treating "already exists"
// as a no-op so migrations stay idempotent.
func addColumn(db *sql.DB, stmt string) error {
	_, err := db.Exec(stmt)
	if err != nil && strings.Contains(err.Error(), "duplicate column") {
		log.Printf("ℹ️ Колонка вже існує, пропускаю: %s", stmt)
		return nil
	}
	return err
}
