package store

import "time"

// Repository provides data access methods over the placement schema,
// mirroring the shape of the teacher's internal/database.Repository.
type Repository struct {
	db *DB
}

// NewRepository builds a Repository over an open database.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateJob inserts a new Job row.
func (r *Repository) CreateJob(job *Job) error {
	return r.db.Create(job).Error
}

// GetJob retrieves a Job by id.
func (r *Repository) GetJob(id string) (*Job, error) {
	var job Job
	if err := r.db.First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs lists every Job, most recent first.
func (r *Repository) ListJobs() ([]Job, error) {
	var jobs []Job
	err := r.db.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

// UpdateJob persists changes to an existing Job.
func (r *Repository) UpdateJob(job *Job) error {
	return r.db.Save(job).Error
}

// CompleteJob marks a Job terminal, recording its best result and cost.
func (r *Repository) CompleteJob(id string, status JobStatus, bestResultID string, totalCost float64, feasible bool, errMsg string) error {
	now := time.Now()
	return r.db.Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"best_result_id": bestResultID,
			"total_cost":     totalCost,
			"feasible":       feasible,
			"error":          errMsg,
			"completed_at":   now,
			"updated_at":     now,
		}).Error
}

// SaveResult inserts one elite Result row.
func (r *Repository) SaveResult(rec *ResultRecord) error {
	return r.db.Create(rec).Error
}

// ListResults retrieves every kept Result for a Job, best rank first.
func (r *Repository) ListResults(jobID string) ([]ResultRecord, error) {
	var recs []ResultRecord
	err := r.db.Where("job_id = ?", jobID).Order("rank ASC").Find(&recs).Error
	return recs, err
}

// SaveWorkloadMaximization inserts one binary-search outcome row.
func (r *Repository) SaveWorkloadMaximization(rec *WorkloadMaximizationRecord) error {
	return r.db.Create(rec).Error
}

// GetWorkloadMaximization retrieves the latest outcome for a Job.
func (r *Repository) GetWorkloadMaximization(jobID string) (*WorkloadMaximizationRecord, error) {
	var rec WorkloadMaximizationRecord
	err := r.db.Where("job_id = ?", jobID).Order("created_at DESC").First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
