package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// Run is a stored record of one completed processing run.
type Run struct {
	RequestID   string                        `json:"request_id"`
	PlanID      string                        `json:"plan_id"`
	RequestText string                        `json:"request_text"`
	Status      models.BundleStatus           `json:"status"`
	Fallback    bool                          `json:"fallback"`
	Results     map[string]models.AgentResult `json:"results"`
	StartedAt   time.Time                     `json:"started_at"`
	Elapsed     time.Duration                 `json:"elapsed"`
}

// SaveBundle persists a finished run with its decision log in one
// transaction. Saving the same request twice replaces the earlier run.
func (db *DB) SaveBundle(req models.Request, bundle *models.ResultBundle, fallback bool) error {
	results, err := json.Marshal(bundle.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	return db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM runs WHERE request_id = ?", bundle.RequestID); err != nil {
			return fmt.Errorf("clear prior run: %w", err)
		}

		_, err := tx.Exec(`
			INSERT INTO runs (request_id, plan_id, request_text, status, fallback, results, started_at, elapsed_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, bundle.RequestID, bundle.PlanID, req.Text, string(bundle.Status),
			boolToInt(fallback), string(results), formatTime(bundle.StartedAt),
			bundle.Elapsed.Milliseconds())
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, d := range bundle.Decisions {
			_, err := tx.Exec(`
				INSERT INTO decisions (request_id, seq, timestamp, actor, decision, reasoning)
				VALUES (?, ?, ?, ?, ?, ?)
			`, bundle.RequestID, d.Seq, formatTime(d.Timestamp), d.Actor, d.Decision, d.Reasoning)
			if err != nil {
				return fmt.Errorf("insert decision %d: %w", d.Seq, err)
			}
		}
		return nil
	})
}

// GetRun retrieves a stored run by request ID.
// Returns nil if no run is stored for the ID.
func (db *DB) GetRun(requestID string) (*Run, error) {
	row := db.QueryRow(`
		SELECT request_id, plan_id, request_text, status, fallback, results, started_at, elapsed_ms
		FROM runs WHERE request_id = ?
	`, requestID)

	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns lists stored runs, newest first, up to limit.
// A limit of 0 means no limit.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT request_id, plan_id, request_text, status, fallback, results, started_at, elapsed_ms
		FROM runs ORDER BY started_at DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetDecisions retrieves the decision log of a stored run, in order.
func (db *DB) GetDecisions(requestID string) ([]models.DecisionLogEntry, error) {
	rows, err := db.Query(`
		SELECT seq, timestamp, actor, decision, COALESCE(reasoning, '')
		FROM decisions WHERE request_id = ? ORDER BY seq
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var entries []models.DecisionLogEntry
	for rows.Next() {
		var e models.DecisionLogEntry
		var ts string
		if err := rows.Scan(&e.Seq, &ts, &e.Actor, &e.Decision, &e.Reasoning); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.Timestamp, _ = parseTime(ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteRun removes a stored run and its decisions.
func (db *DB) DeleteRun(requestID string) error {
	_, err := db.Exec("DELETE FROM runs WHERE request_id = ?", requestID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// scanRun reads one run row via the given scan function.
func scanRun(scan func(dest ...any) error) (*Run, error) {
	var r Run
	var status, results, startedAt string
	var fallback, elapsedMS int64
	if err := scan(&r.RequestID, &r.PlanID, &r.RequestText, &status, &fallback, &results, &startedAt, &elapsedMS); err != nil {
		return nil, err
	}

	r.Status = models.BundleStatus(status)
	r.Fallback = fallback != 0
	r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	r.StartedAt, _ = parseTime(startedAt)
	if err := json.Unmarshal([]byte(results), &r.Results); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	return &r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
