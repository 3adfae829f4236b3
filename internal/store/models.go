// Package store persists placement jobs and their results with
// GORM/SQLite, the same way the teacher persists simulations (§B):
// Job is the placement-optimizer analogue of Simulation, ResultRecord of
// MetricSnapshot (one row per kept elite Result), and
// WorkloadMaximizationRecord of ScalingDecision.
package store

import "time"

// JobStatus mirrors the teacher's string status field on Simulation.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job is one placement-search run: a submitted system + algorithm
// configuration pair, its status, and its best result once complete.
type Job struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	SystemPath    string    `json:"system_path"`
	AlgorithmPath string    `json:"algorithm_path"`
	Status        JobStatus `json:"status"`
	Seed          int64     `json:"seed"`
	Workers       int       `json:"workers"`

	BestResultID string  `json:"best_result_id,omitempty"`
	TotalCost    float64 `json:"total_cost,omitempty"`
	Feasible     bool    `json:"feasible"`
	Error        string  `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ResultRecord is one kept elite Result, persisted for later retrieval
// (§3 "Result ... ID unique", §B internal/store wiring).
type ResultRecord struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	JobID         string  `gorm:"index" json:"job_id"`
	Rank          int     `json:"rank"`
	Cost          float64 `json:"cost"`
	Feasible      bool    `json:"feasible"`
	FailedCheck   string  `json:"failed_check,omitempty"`
	ViolationRate float64 `json:"violation_rate"`
	Lambda        float64 `json:"lambda"`

	CreatedAt time.Time `json:"created_at"`
}

// WorkloadMaximizationRecord is the outcome of one binary-search
// workload-maximization run against a Job's best placement (§4.8).
type WorkloadMaximizationRecord struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	JobID    string  `gorm:"index" json:"job_id"`
	Lambda   float64 `json:"lambda"`
	Feasible bool    `json:"feasible"`

	CreatedAt time.Time `json:"created_at"`
}
