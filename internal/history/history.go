// Package history provides an optional SQLite-backed log of answered
// questions. The core pipeline is stateless; only front-ends record
// results here.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ShayCichocki/maker/pkg/models"
)

// DefaultPath returns the default history database location under the
// XDG data directory.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "maker", "history.db")
}

// Store wraps an SQLite database holding answered questions.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens the history database at the given path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS answers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	confidence TEXT NOT NULL,
	consensus INTEGER NOT NULL,
	decomposed INTEGER NOT NULL,
	sub_questions INTEGER NOT NULL,
	total_votes INTEGER NOT NULL,
	valid_votes INTEGER NOT NULL,
	red_flagged_votes INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	asked_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.path
}

// Record appends one answered question to the log.
func (s *Store) Record(ctx context.Context, runID, question string, res *models.MakerResult) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO answers (run_id, question, answer, confidence, consensus,
			decomposed, sub_questions, total_votes, valid_votes,
			red_flagged_votes, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, question, res.Answer, string(res.Confidence),
		boolToInt(res.ConsensusReached), boolToInt(res.IsDecomposed),
		len(res.SubQuestions), res.Stats.TotalVotes, res.Stats.ValidVotes,
		res.Stats.RedFlaggedVotes, res.ExecutionTime.Milliseconds())
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// Entry is one row of the answer log.
type Entry struct {
	RunID            string
	Question         string
	Answer           string
	Confidence       models.Confidence
	ConsensusReached bool
	IsDecomposed     bool
	SubQuestions     int
	TotalVotes       int
	ValidVotes       int
	RedFlaggedVotes  int
	Duration         time.Duration
	AskedAt          time.Time
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT run_id, question, answer, confidence, consensus, decomposed,
			sub_questions, total_votes, valid_votes, red_flagged_votes,
			duration_ms, asked_at
		FROM answers ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var consensus, decomposed int
		var durationMs int64
		var confidence string
		if err := rows.Scan(&e.RunID, &e.Question, &e.Answer, &confidence,
			&consensus, &decomposed, &e.SubQuestions, &e.TotalVotes,
			&e.ValidVotes, &e.RedFlaggedVotes, &durationMs, &e.AskedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		e.Confidence = models.Confidence(confidence)
		e.ConsensusReached = consensus != 0
		e.IsDecomposed = decomposed != 0
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
