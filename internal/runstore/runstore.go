// Package runstore persists completed routing runs to sqlite so past
// verdicts can be reviewed and compared. The routing core itself does no
// I/O; only the CLI front end writes here.
package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fireflow-eng/fireroute/internal/pipeline"
)

// Record is one persisted routing run.
type Record struct {
	RunID          string          `json:"run_id"`
	SceneName      string          `json:"scene_name"`
	Hazard         string          `json:"hazard"`
	Light          string          `json:"light"`
	Message        string          `json:"message"`
	RouteJSON      json.RawMessage `json:"route_json,omitempty"`
	HydraulicJSON  json.RawMessage `json:"hydraulic_json,omitempty"`
	VerdictJSON    json.RawMessage `json:"verdict_json"`
	OccupiedVoxels int             `json:"occupied_voxels"`
	TotalMillis    int64           `json:"total_millis"`
	CreatedAtNs    int64           `json:"created_at_ns"`
}

// Store provides persistence for routing runs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the run database at path and ensures the
// schema exists. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS routing_runs (
			run_id            TEXT PRIMARY KEY,
			scene_name        TEXT NOT NULL,
			hazard            TEXT NOT NULL,
			light             TEXT NOT NULL,
			message           TEXT NOT NULL,
			route_json        TEXT,
			hydraulic_json    TEXT,
			verdict_json      TEXT NOT NULL,
			occupied_voxels   INTEGER NOT NULL DEFAULT 0,
			total_millis      INTEGER NOT NULL DEFAULT 0,
			created_at_ns     INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_routing_runs_scene
			ON routing_runs(scene_name, created_at_ns);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("runstore: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// InsertResult persists a pipeline RunResult. If the result has no run
// ID a new UUID is generated.
func (s *Store) InsertResult(res *pipeline.RunResult, hazard string) error {
	if res.RunID == "" {
		res.RunID = uuid.New().String()
	}
	createdAt := res.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var routeJSON, hydJSON []byte
	var err error
	if res.Route != nil {
		if routeJSON, err = json.Marshal(res.Route); err != nil {
			return fmt.Errorf("runstore: marshal route: %w", err)
		}
		if hydJSON, err = json.Marshal(res.Hydraulic); err != nil {
			return fmt.Errorf("runstore: marshal hydraulics: %w", err)
		}
	}
	verdictJSON, err := json.Marshal(res.Verdict)
	if err != nil {
		return fmt.Errorf("runstore: marshal verdict: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO routing_runs (
			run_id, scene_name, hazard, light, message,
			route_json, hydraulic_json, verdict_json,
			occupied_voxels, total_millis, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		res.RunID,
		res.SceneName,
		hazard,
		string(res.Verdict.Light),
		res.Verdict.Message,
		nullString(routeJSON),
		nullString(hydJSON),
		string(verdictJSON),
		res.OccupiedVoxels,
		res.Timings.Total.Milliseconds(),
		createdAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("runstore: insert run %s: %w", res.RunID, err)
	}
	return nil
}

// GetRun fetches one run by ID.
func (s *Store) GetRun(runID string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT run_id, scene_name, hazard, light, message,
		       route_json, hydraulic_json, verdict_json,
		       occupied_voxels, total_millis, created_at_ns
		FROM routing_runs WHERE run_id = ?
	`, runID)
	return scanRecord(row)
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *Store) ListRuns(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT run_id, scene_name, hazard, light, message,
		       route_json, hydraulic_json, verdict_json,
		       occupied_voxels, total_millis, created_at_ns
		FROM routing_runs ORDER BY created_at_ns DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("runstore: list runs: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var rec Record
	var routeJSON, hydJSON sql.NullString
	var verdictJSON string
	err := sc.Scan(
		&rec.RunID, &rec.SceneName, &rec.Hazard, &rec.Light, &rec.Message,
		&routeJSON, &hydJSON, &verdictJSON,
		&rec.OccupiedVoxels, &rec.TotalMillis, &rec.CreatedAtNs,
	)
	if err != nil {
		return nil, fmt.Errorf("runstore: scan run: %w", err)
	}
	if routeJSON.Valid {
		rec.RouteJSON = json.RawMessage(routeJSON.String)
	}
	if hydJSON.Valid {
		rec.HydraulicJSON = json.RawMessage(hydJSON.String)
	}
	rec.VerdictJSON = json.RawMessage(verdictJSON)
	return &rec, nil
}

func nullString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
