package store

import (
	"testing"
	"time"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db)
}

func TestCreateAndGetJob(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now()
	job := &Job{ID: "job-1", SystemPath: "sys.json", AlgorithmPath: "alg.json", Status: JobPending, Workers: 2, CreatedAt: now, UpdatedAt: now}

	if err := repo.CreateJob(job); err != nil {
		t.Fatalf("CreateJob() failed: %v", err)
	}

	got, err := repo.GetJob("job-1")
	if err != nil {
		t.Fatalf("GetJob() failed: %v", err)
	}
	if got.SystemPath != "sys.json" || got.Status != JobPending {
		t.Errorf("GetJob() = %+v, want SystemPath=sys.json Status=pending", got)
	}
}

func TestListJobsOrdersMostRecentFirst(t *testing.T) {
	repo := newTestRepo(t)
	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	repo.CreateJob(&Job{ID: "job-old", Status: JobPending, CreatedAt: older, UpdatedAt: older})
	repo.CreateJob(&Job{ID: "job-new", Status: JobPending, CreatedAt: newer, UpdatedAt: newer})

	jobs, err := repo.ListJobs()
	if err != nil {
		t.Fatalf("ListJobs() failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("ListJobs() returned %d jobs, want 2", len(jobs))
	}
	if jobs[0].ID != "job-new" {
		t.Errorf("ListJobs()[0].ID = %q, want job-new (most recent first)", jobs[0].ID)
	}
}

func TestCompleteJobPersistsOutcome(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now()
	repo.CreateJob(&Job{ID: "job-1", Status: JobRunning, CreatedAt: now, UpdatedAt: now})

	if err := repo.CompleteJob("job-1", JobCompleted, "result-1", 42.5, true, ""); err != nil {
		t.Fatalf("CompleteJob() failed: %v", err)
	}

	got, err := repo.GetJob("job-1")
	if err != nil {
		t.Fatalf("GetJob() failed: %v", err)
	}
	if got.Status != JobCompleted || got.BestResultID != "result-1" || got.TotalCost != 42.5 || !got.Feasible {
		t.Errorf("GetJob() after CompleteJob() = %+v, want status=completed best=result-1 cost=42.5 feasible=true", got)
	}
	if got.CompletedAt == nil {
		t.Error("CompleteJob() should set CompletedAt")
	}
}

func TestSaveAndListResults(t *testing.T) {
	repo := newTestRepo(t)
	repo.CreateJob(&Job{ID: "job-1", Status: JobRunning, CreatedAt: time.Now(), UpdatedAt: time.Now()})

	repo.SaveResult(&ResultRecord{ID: "r2", JobID: "job-1", Rank: 1, Cost: 20, Feasible: true, CreatedAt: time.Now()})
	repo.SaveResult(&ResultRecord{ID: "r1", JobID: "job-1", Rank: 0, Cost: 10, Feasible: true, CreatedAt: time.Now()})

	results, err := repo.ListResults("job-1")
	if err != nil {
		t.Fatalf("ListResults() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("ListResults() returned %d records, want 2", len(results))
	}
	if results[0].Rank != 0 || results[0].ID != "r1" {
		t.Errorf("ListResults()[0] = %+v, want rank 0 (r1) first", results[0])
	}
}

func TestSaveAndGetLatestWorkloadMaximization(t *testing.T) {
	repo := newTestRepo(t)
	repo.CreateJob(&Job{ID: "job-1", Status: JobRunning, CreatedAt: time.Now(), UpdatedAt: time.Now()})

	older := time.Now().Add(-time.Minute)
	newer := time.Now()
	repo.SaveWorkloadMaximization(&WorkloadMaximizationRecord{ID: "wm-old", JobID: "job-1", Lambda: 1, Feasible: true, CreatedAt: older})
	repo.SaveWorkloadMaximization(&WorkloadMaximizationRecord{ID: "wm-new", JobID: "job-1", Lambda: 2, Feasible: true, CreatedAt: newer})

	got, err := repo.GetWorkloadMaximization("job-1")
	if err != nil {
		t.Fatalf("GetWorkloadMaximization() failed: %v", err)
	}
	if got.ID != "wm-new" || got.Lambda != 2 {
		t.Errorf("GetWorkloadMaximization() = %+v, want the most recent record (wm-new, lambda 2)", got)
	}
}
