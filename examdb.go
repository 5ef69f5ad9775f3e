package examgen

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB persists completed sessions so past quizzes and scores survive a
// restart. Generation and evaluation never depend on it; a missing or
// broken database only costs the history view.
type DB struct {
	db *sql.DB
}

// SessionRecord is one row of the saved session history
type SessionRecord struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Mode       string    `json:"mode"`
	Difficulty string    `json:"difficulty"`
	NumItems   int       `json:"num_items"`
	Correct    int       `json:"correct"`
	Total      int       `json:"total"`
	ScorePct   float64   `json:"score_pct"`
	CreatedAt  time.Time `json:"created_at"`
}

// OpenDB opens a new database connection
func OpenDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db: db}, nil
}

// CloseDB closes the database connection
func (db *DB) CloseDB() error {
	return db.db.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (db *DB) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			num_items INTEGER NOT NULL,
			correct INTEGER NOT NULL DEFAULT 0,
			total INTEGER NOT NULL DEFAULT 0,
			score_pct REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			question_num INTEGER NOT NULL,
			text TEXT NOT NULL,
			options TEXT NOT NULL,
			correct_answer INTEGER NOT NULL,
			explanation TEXT,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			title TEXT,
			text TEXT NOT NULL,
			starter_code TEXT NOT NULL,
			language_hint TEXT,
			rubric TEXT,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			item_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			selected_option INTEGER NOT NULL,
			answer_text TEXT,
			correct INTEGER NOT NULL DEFAULT 0,
			score INTEGER,
			score_extracted INTEGER NOT NULL DEFAULT 0,
			feedback TEXT,
			submitted_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
	}

	for _, query := range queries {
		if _, err := db.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// SaveCompleted writes a fully evaluated session, its items and the user's
// submissions with their results, in one transaction.
func (db *DB) SaveCompleted(session *SessionState) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	correct, total, pct := session.Score()
	_, err = tx.Exec(
		"INSERT OR REPLACE INTO sessions (id, topic, mode, difficulty, num_items, correct, total, score_pct, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		session.ID, session.Request.Topic, string(session.Request.Mode), session.Request.Difficulty,
		len(session.Items), correct, total, pct, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	for i, q := range session.Questions() {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("failed to marshal options: %w", err)
		}
		_, err = tx.Exec(
			"INSERT OR REPLACE INTO questions (id, session_id, question_num, text, options, correct_answer, explanation) VALUES (?, ?, ?, ?, ?, ?, ?)",
			q.ID, session.ID, i+1, q.Text, string(optionsJSON), q.CorrectAnswer, q.Explanation,
		)
		if err != nil {
			return fmt.Errorf("failed to save question: %w", err)
		}
	}

	for _, a := range session.Assignments() {
		_, err = tx.Exec(
			"INSERT OR REPLACE INTO assignments (id, session_id, title, text, starter_code, language_hint, rubric) VALUES (?, ?, ?, ?, ?, ?, ?)",
			a.ID, session.ID, a.Title, a.Text, a.StarterCode, a.LanguageHint, a.Rubric,
		)
		if err != nil {
			return fmt.Errorf("failed to save assignment: %w", err)
		}
	}

	for _, item := range session.Items {
		sub, ok := session.Submission(item.ItemID())
		if !ok {
			continue
		}
		res, _ := session.Result(item.ItemID())

		var score sql.NullInt64
		if res.Score != nil {
			score = sql.NullInt64{Int64: int64(*res.Score), Valid: true}
		}
		_, err = tx.Exec(
			"INSERT OR REPLACE INTO submissions (item_id, session_id, selected_option, answer_text, correct, score, score_extracted, feedback, submitted_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			sub.ItemID, session.ID, sub.SelectedOption, sub.AnswerText,
			res.Correct, score, res.ScoreExtracted, res.Feedback, sub.SubmittedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save submission: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// ListRecent returns the most recently completed sessions, newest first.
// limit <= 0 returns all of them.
func (db *DB) ListRecent(limit int) ([]SessionRecord, error) {
	query := "SELECT id, topic, mode, difficulty, num_items, correct, total, score_pct, created_at FROM sessions ORDER BY created_at DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.ID, &rec.Topic, &rec.Mode, &rec.Difficulty, &rec.NumItems,
			&rec.Correct, &rec.Total, &rec.ScorePct, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
