// Package store persists task plans and delegate run results in sqlite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/rahul/sarthi/internal/delegate"
	"github.com/rahul/sarthi/internal/plan"
)

type PlanStore struct {
	DB *sql.DB
}

// PlanRecord is a stored plan plus its metadata.
type PlanRecord struct {
	ID        int64
	Objective string
	Plan      *plan.TaskPlan
	CreatedAt time.Time
}

func NewPlanStore(dbPath string) (*PlanStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS plans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			objective TEXT,
			body TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS task_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id INTEGER,
			task_id TEXT,
			outputs TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return nil, err
		}
	}

	return &PlanStore{DB: db}, nil
}

func (s *PlanStore) Close() error {
	return s.DB.Close()
}

// SavePlan stores a plan and returns its id.
func (s *PlanStore) SavePlan(p *plan.TaskPlan) (int64, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to encode plan: %v", err)
	}

	res, err := s.DB.Exec(`INSERT INTO plans (objective, body) VALUES (?, ?)`, p.Objective, string(body))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPlan loads a stored plan by id.
func (s *PlanStore) GetPlan(id int64) (*PlanRecord, error) {
	row := s.DB.QueryRow(`SELECT id, objective, body, created_at FROM plans WHERE id = ?`, id)

	var rec PlanRecord
	var body string
	if err := row.Scan(&rec.ID, &rec.Objective, &body, &rec.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("plan %d not found", id)
		}
		return nil, err
	}

	var p plan.TaskPlan
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, fmt.Errorf("failed to decode stored plan %d: %v", id, err)
	}
	rec.Plan = &p
	return &rec, nil
}

// ListPlans returns all stored plans, newest first, without their bodies
// decoded.
func (s *PlanStore) ListPlans() ([]PlanRecord, error) {
	rows, err := s.DB.Query(`SELECT id, objective, created_at FROM plans ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PlanRecord
	for rows.Next() {
		var rec PlanRecord
		if err := rows.Scan(&rec.ID, &rec.Objective, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveResult stores one delegate run result for a plan.
func (s *PlanStore) SaveResult(planID int64, result *delegate.RunResult) error {
	outputs, err := json.Marshal(result.Outputs)
	if err != nil {
		return fmt.Errorf("failed to encode outputs of task %s: %v", result.TaskID, err)
	}

	_, err = s.DB.Exec(
		`INSERT INTO task_results (plan_id, task_id, outputs) VALUES (?, ?, ?)`,
		planID, result.TaskID, string(outputs),
	)
	return err
}

// GetResults returns the stored results of a plan keyed by task id. When a
// task was run more than once, the latest result wins.
func (s *PlanStore) GetResults(planID int64) (map[string]*delegate.RunResult, error) {
	rows, err := s.DB.Query(
		`SELECT task_id, outputs FROM task_results WHERE plan_id = ? ORDER BY id ASC`,
		planID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make(map[string]*delegate.RunResult)
	for rows.Next() {
		var taskID, outputs string
		if err := rows.Scan(&taskID, &outputs); err != nil {
			return nil, err
		}

		var values []delegate.Value
		if err := json.Unmarshal([]byte(outputs), &values); err != nil {
			return nil, fmt.Errorf("failed to decode stored outputs of task %s: %v", taskID, err)
		}
		results[taskID] = &delegate.RunResult{TaskID: taskID, Outputs: values}
	}
	return results, rows.Err()
}
