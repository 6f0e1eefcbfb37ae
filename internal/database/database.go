package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; serializing connections makes a
	// concurrent duplicate insert fail on the UNIQUE constraint instead
	// of SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT,
		first_name TEXT,
		last_name TEXT,
		phone_number TEXT,
		profile_picture TEXT,
		password_hash TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS predictions (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		age REAL, sex REAL, cp REAL, trestbps REAL, chol REAL, fbs REAL,
		restecg REAL, thalach REAL, exang REAL, oldpeak REAL, slope REAL,
		ca REAL, thal REAL,
		outcome INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_user ON predictions(user_id);
	CREATE INDEX IF NOT EXISTS idx_predictions_created ON predictions(created_at);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
