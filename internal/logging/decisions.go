package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"mineagent/internal/brain"
	"mineagent/internal/perception"
)

// DecisionLogger persists every arbitration round to SQLite for offline
// inspection: the snapshot the brains saw, every vote, and the winning
// decision.
type DecisionLogger struct {
	db *sql.DB
}

// NewDecisionLogger opens (or creates) the decision database at path.
func NewDecisionLogger(path string) (*DecisionLogger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger := &DecisionLogger{db: db}
	if err := logger.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return logger, nil
}

func (dl *DecisionLogger) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		snapshot TEXT NOT NULL,
		votes TEXT NOT NULL,
		winner TEXT NOT NULL,
		action TEXT NOT NULL,
		score INTEGER NOT NULL,
		reason TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_decisions_winner ON decisions(winner);
	`

	_, err := dl.db.Exec(schema)
	return err
}

// LogRound implements brain.RoundSink.
func (dl *DecisionLogger) LogRound(snap *perception.Snapshot, round brain.Round) error {
	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	votesJSON, err := json.Marshal(round.Votes)
	if err != nil {
		return fmt.Errorf("failed to marshal votes: %w", err)
	}

	_, err = dl.db.Exec(`
		INSERT INTO decisions (snapshot, votes, winner, action, score, reason)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(snapJSON), string(votesJSON),
		round.Decision.Brain, string(round.Decision.Action),
		round.Decision.Score, round.Decision.Reason)

	return err
}

func (dl *DecisionLogger) Close() error {
	return dl.db.Close()
}
