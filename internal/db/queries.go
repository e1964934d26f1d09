package db

import (
	"database/sql"
	"fmt"
)

// StageEvent represents a row in the stage_events table.
type StageEvent struct {
	ID        int
	Repo      string
	RunID     string
	Stage     string
	Event     string
	ExitCode  *int
	Timestamp string
	Metadata  string
}

// ValidationRun represents a row in the validation_runs table.
type ValidationRun struct {
	ID         int
	Repo       string
	PatchHash  string
	Worker     string
	Outcome    string
	DurationMs int
	Summary    string
	Timestamp  string
}

// TestResult represents a row in the test_results table.
type TestResult struct {
	ID               int
	ValidationRunID  int
	TestName         string
	PreStatus        string
	PostStatus       string
	Classification   string
	Timestamp        string
}

// LogStageEvent inserts a stage event.
func (d *DB) LogStageEvent(repo, runID, stage, event string, exitCode *int, metadata string) error {
	_, err := d.conn.Exec(
		`INSERT INTO stage_events (repo, run_id, stage, event, exit_code, metadata) VALUES (?, ?, ?, ?, ?, ?)`,
		repo, runID, stage, event, exitCode, metadata,
	)
	if err != nil {
		return fmt.Errorf("log stage event: %w", err)
	}
	return nil
}

// GetStageState returns the most recent event for a run.
func (d *DB) GetStageState(runID string) (*StageEvent, error) {
	row := d.conn.QueryRow(
		`SELECT id, repo, run_id, stage, event, exit_code, timestamp, metadata
		 FROM stage_events WHERE run_id = ? ORDER BY timestamp DESC, id DESC LIMIT 1`,
		runID,
	)
	var e StageEvent
	var exitCode sql.NullInt64
	var metadata sql.NullString
	err := row.Scan(&e.ID, &e.Repo, &e.RunID, &e.Stage, &e.Event, &exitCode, &e.Timestamp, &metadata)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stage state: %w", err)
	}
	if exitCode.Valid {
		v := int(exitCode.Int64)
		e.ExitCode = &v
	}
	if metadata.Valid {
		e.Metadata = metadata.String
	}
	return &e, nil
}

// GetStageStartedAt returns the timestamp of the first "started" event for a run.
func (d *DB) GetStageStartedAt(runID string) (string, error) {
	var timestamp string
	err := d.conn.QueryRow(
		`SELECT timestamp FROM stage_events
		 WHERE run_id = ? AND event = 'started'
		 ORDER BY id ASC LIMIT 1`,
		runID,
	).Scan(&timestamp)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no started event for run %q", runID)
	}
	if err != nil {
		return "", fmt.Errorf("get stage started_at: %w", err)
	}
	return timestamp, nil
}

// GetActiveRuns returns runs whose most recent event is 'started' or 'progress'.
func (d *DB) GetActiveRuns() ([]StageEvent, error) {
	rows, err := d.conn.Query(`
		SELECT se.id, se.repo, se.run_id, se.stage, se.event, se.exit_code, se.timestamp, se.metadata
		FROM stage_events se
		INNER JOIN (
			SELECT run_id, MAX(id) as max_id
			FROM stage_events
			GROUP BY run_id
		) latest ON se.id = latest.max_id
		WHERE se.event IN ('started', 'progress')
	`)
	if err != nil {
		return nil, fmt.Errorf("get active runs: %w", err)
	}
	defer rows.Close()

	var events []StageEvent
	for rows.Next() {
		var e StageEvent
		var exitCode sql.NullInt64
		var metadata sql.NullString
		if err := rows.Scan(&e.ID, &e.Repo, &e.RunID, &e.Stage, &e.Event, &exitCode, &e.Timestamp, &metadata); err != nil {
			return nil, fmt.Errorf("scan stage event: %w", err)
		}
		if exitCode.Valid {
			v := int(exitCode.Int64)
			e.ExitCode = &v
		}
		if metadata.Valid {
			e.Metadata = metadata.String
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetStageHistory returns all stage events for a repo, ordered by timestamp descending.
func (d *DB) GetStageHistory(repo string) ([]StageEvent, error) {
	rows, err := d.conn.Query(
		`SELECT id, repo, run_id, stage, event, exit_code, timestamp, metadata
		 FROM stage_events WHERE repo = ? ORDER BY timestamp DESC, id DESC`,
		repo,
	)
	if err != nil {
		return nil, fmt.Errorf("get stage history: %w", err)
	}
	defer rows.Close()

	var events []StageEvent
	for rows.Next() {
		var e StageEvent
		var exitCode sql.NullInt64
		var metadata sql.NullString
		if err := rows.Scan(&e.ID, &e.Repo, &e.RunID, &e.Stage, &e.Event, &exitCode, &e.Timestamp, &metadata); err != nil {
			return nil, fmt.Errorf("scan stage event: %w", err)
		}
		if exitCode.Valid {
			v := int(exitCode.Int64)
			e.ExitCode = &v
		}
		if metadata.Valid {
			e.Metadata = metadata.String
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// LogValidationRun inserts a validation run record and returns its id.
func (d *DB) LogValidationRun(repo, patchHash, worker, outcome string, durationMs int, summary string) (int, error) {
	res, err := d.conn.Exec(
		`INSERT INTO validation_runs (repo, patch_hash, worker, outcome, duration_ms, summary) VALUES (?, ?, ?, ?, ?, ?)`,
		repo, patchHash, worker, outcome, durationMs, summary,
	)
	if err != nil {
		return 0, fmt.Errorf("log validation run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get validation run id: %w", err)
	}
	return int(id), nil
}

// GetValidationRuns returns validation runs for a repo and patch hash.
func (d *DB) GetValidationRuns(repo, patchHash string) ([]ValidationRun, error) {
	rows, err := d.conn.Query(
		`SELECT id, repo, patch_hash, worker, outcome, duration_ms, summary, timestamp
		 FROM validation_runs WHERE repo = ? AND patch_hash = ? ORDER BY id`,
		repo, patchHash,
	)
	if err != nil {
		return nil, fmt.Errorf("get validation runs: %w", err)
	}
	defer rows.Close()

	var runs []ValidationRun
	for rows.Next() {
		var r ValidationRun
		var durationMs sql.NullInt64
		var summary sql.NullString
		if err := rows.Scan(&r.ID, &r.Repo, &r.PatchHash, &r.Worker, &r.Outcome, &durationMs, &summary, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan validation run: %w", err)
		}
		if durationMs.Valid {
			r.DurationMs = int(durationMs.Int64)
		}
		if summary.Valid {
			r.Summary = summary.String
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetLatestValidationRun returns the most recent validation run for a repo and patch hash.
func (d *DB) GetLatestValidationRun(repo, patchHash string) (*ValidationRun, error) {
	row := d.conn.QueryRow(
		`SELECT id, repo, patch_hash, worker, outcome, duration_ms, summary, timestamp
		 FROM validation_runs WHERE repo = ? AND patch_hash = ? ORDER BY id DESC LIMIT 1`,
		repo, patchHash,
	)
	var r ValidationRun
	var durationMs sql.NullInt64
	var summary sql.NullString
	err := row.Scan(&r.ID, &r.Repo, &r.PatchHash, &r.Worker, &r.Outcome, &durationMs, &summary, &r.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest validation run: %w", err)
	}
	if durationMs.Valid {
		r.DurationMs = int(durationMs.Int64)
	}
	if summary.Valid {
		r.Summary = summary.String
	}
	return &r, nil
}

// LogTestResult inserts a test result row for a validation run.
func (d *DB) LogTestResult(validationRunID int, testName, preStatus, postStatus, classification string) error {
	_, err := d.conn.Exec(
		`INSERT INTO test_results (validation_run_id, test_name, pre_status, post_status, classification)
		 VALUES (?, ?, ?, ?, ?)`,
		validationRunID, testName, preStatus, postStatus, classification,
	)
	if err != nil {
		return fmt.Errorf("log test result: %w", err)
	}
	return nil
}

// GetTestResults returns test results for a validation run, optionally filtered by classification.
func (d *DB) GetTestResults(validationRunID int, classification string) ([]TestResult, error) {
	var rows *sql.Rows
	var err error
	if classification == "" {
		rows, err = d.conn.Query(
			`SELECT id, validation_run_id, test_name, pre_status, post_status, classification, timestamp
			 FROM test_results WHERE validation_run_id = ? ORDER BY test_name`,
			validationRunID,
		)
	} else {
		rows, err = d.conn.Query(
			`SELECT id, validation_run_id, test_name, pre_status, post_status, classification, timestamp
			 FROM test_results WHERE validation_run_id = ? AND classification = ? ORDER BY test_name`,
			validationRunID, classification,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("get test results: %w", err)
	}
	defer rows.Close()

	var results []TestResult
	for rows.Next() {
		var r TestResult
		if err := rows.Scan(&r.ID, &r.ValidationRunID, &r.TestName, &r.PreStatus, &r.PostStatus, &r.Classification, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan test result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// CandidateQueueItem represents a row in the candidate_queue table.
type CandidateQueueItem struct {
	ID         int
	Repo       string
	PatchHash  string
	BugKind    string
	Status     string
	Position   int
	AddedAt    string
	StartedAt  string
	FinishedAt string
}

// CandidateQueueAddItem holds a patch hash and its bug kind for queue insertion.
type CandidateQueueAddItem struct {
	Repo      string
	PatchHash string
	BugKind   string
}

// CandidateQueueAdd inserts candidate patches into the queue with sequential positions.
func (d *DB) CandidateQueueAdd(items []CandidateQueueAddItem) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxPos sql.NullInt64
	if err := tx.QueryRow("SELECT MAX(position) FROM candidate_queue").Scan(&maxPos); err != nil {
		return fmt.Errorf("get max position: %w", err)
	}
	nextPos := 1
	if maxPos.Valid {
		nextPos = int(maxPos.Int64) + 1
	}

	stmt, err := tx.Prepare("INSERT INTO candidate_queue (repo, patch_hash, bug_kind, position) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.Exec(item.Repo, item.PatchHash, item.BugKind, nextPos); err != nil {
			return fmt.Errorf("insert candidate %s: %w", item.PatchHash, err)
		}
		nextPos++
	}

	return tx.Commit()
}

// CandidateQueueList returns all queue items ordered by position.
func (d *DB) CandidateQueueList() ([]CandidateQueueItem, error) {
	rows, err := d.conn.Query(
		`SELECT id, repo, patch_hash, bug_kind, status, position, added_at, started_at, finished_at
		 FROM candidate_queue ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list candidate queue: %w", err)
	}
	defer rows.Close()

	var items []CandidateQueueItem
	for rows.Next() {
		var item CandidateQueueItem
		var startedAt, finishedAt sql.NullString
		if err := rows.Scan(&item.ID, &item.Repo, &item.PatchHash, &item.BugKind, &item.Status, &item.Position, &item.AddedAt, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan candidate queue item: %w", err)
		}
		if startedAt.Valid {
			item.StartedAt = startedAt.String
		}
		if finishedAt.Valid {
			item.FinishedAt = finishedAt.String
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CandidateQueueNext returns the next pending item (lowest position), or nil if none.
func (d *DB) CandidateQueueNext() (*CandidateQueueItem, error) {
	row := d.conn.QueryRow(
		`SELECT id, repo, patch_hash, bug_kind, status, position, added_at, started_at, finished_at
		 FROM candidate_queue WHERE status = 'pending' ORDER BY position ASC LIMIT 1`)

	var item CandidateQueueItem
	var startedAt, finishedAt sql.NullString
	err := row.Scan(&item.ID, &item.Repo, &item.PatchHash, &item.BugKind, &item.Status, &item.Position, &item.AddedAt, &startedAt, &finishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get next candidate: %w", err)
	}
	if startedAt.Valid {
		item.StartedAt = startedAt.String
	}
	if finishedAt.Valid {
		item.FinishedAt = finishedAt.String
	}
	return &item, nil
}

// CandidateQueueUpdateStatus updates the status of a queue item by patch hash.
// Sets started_at when transitioning to "active", finished_at for "completed"/"failed".
func (d *DB) CandidateQueueUpdateStatus(patchHash, status string) error {
	var res sql.Result
	var err error

	switch status {
	case "active":
		res, err = d.conn.Exec(
			`UPDATE candidate_queue SET status = ?, started_at = datetime('now') WHERE patch_hash = ?`,
			status, patchHash)
	case "completed", "failed":
		res, err = d.conn.Exec(
			`UPDATE candidate_queue SET status = ?, finished_at = datetime('now') WHERE patch_hash = ?`,
			status, patchHash)
	default:
		res, err = d.conn.Exec(
			`UPDATE candidate_queue SET status = ? WHERE patch_hash = ?`,
			status, patchHash)
	}

	if err != nil {
		return fmt.Errorf("update candidate queue status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("patch %q not found in queue", patchHash)
	}
	return nil
}

// CandidateQueueRemove deletes a queue item by patch hash.
func (d *DB) CandidateQueueRemove(patchHash string) error {
	res, err := d.conn.Exec("DELETE FROM candidate_queue WHERE patch_hash = ?", patchHash)
	if err != nil {
		return fmt.Errorf("remove from queue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("patch %q not found in queue", patchHash)
	}
	return nil
}

// CandidateQueueClear deletes all items from the queue, returning the count deleted.
func (d *DB) CandidateQueueClear() (int, error) {
	res, err := d.conn.Exec("DELETE FROM candidate_queue")
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return int(n), nil
}
