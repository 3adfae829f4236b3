// Package api exposes the placement-optimizer as a small Gin service:
// submit a system+algorithm description pair, poll job status, fetch the
// K-best EliteResults, fetch the workload-maximization outcome — the
// placement analogue of the teacher's Simulation CRUD + nested-resource
// GET routes (§B).
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/space4ai/placement-optimizer/internal/binarysearch"
	"github.com/space4ai/placement-optimizer/internal/cost"
	"github.com/space4ai/placement-optimizer/internal/logx"
	"github.com/space4ai/placement-optimizer/internal/manifest"
	"github.com/space4ai/placement-optimizer/internal/perf"
	"github.com/space4ai/placement-optimizer/internal/placement"
	"github.com/space4ai/placement-optimizer/internal/search/driver"
	"github.com/space4ai/placement-optimizer/internal/store"
)

// Server is the placement-job HTTP service.
type Server struct {
	router *gin.Engine
	repo   *store.Repository
	port   string
	log    *logx.Logger
}

// NewServer builds a Server, configuring CORS the same way the teacher's
// internal/api.NewServer does.
func NewServer(repo *store.Repository, port string, log *logx.Logger) *Server {
	if log == nil {
		log = logx.Default("api")
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	s := &Server{router: router, repo: repo, port: port, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")

	api.GET("/health", s.healthCheck)

	api.GET("/jobs", s.listJobs)
	api.POST("/jobs", s.createJob)
	api.GET("/jobs/:id", s.getJob)
	api.GET("/jobs/:id/results", s.getResults)
	api.GET("/jobs/:id/workload", s.getWorkloadMaximization)
}

// Start runs the HTTP server, blocking until it exits.
func (s *Server) Start() error {
	return s.router.Run(":" + s.port)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now()})
}

// createJobRequest is the submitted system+algorithm description pair
// (§6.1, §6.2): paths to the two JSON documents, since the optimizer
// operates on files, not inline payloads (§6.4).
type createJobRequest struct {
	SystemPath    string `json:"system_path" binding:"required"`
	AlgorithmPath string `json:"algorithm_path" binding:"required"`
	Workers       int    `json:"workers,omitempty"`
}

func (s *Server) createJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	job := &store.Job{
		ID:            uuid.NewString(),
		SystemPath:    req.SystemPath,
		AlgorithmPath: req.AlgorithmPath,
		Status:        store.JobPending,
		Workers:       req.Workers,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateJob(job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	go s.runJob(job.ID, req.SystemPath, req.AlgorithmPath, req.Workers)

	c.JSON(http.StatusCreated, job)
}

func (s *Server) getJob(c *gin.Context) {
	job, err := s.repo.GetJob(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) listJobs(c *gin.Context) {
	jobs, err := s.repo.ListJobs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (s *Server) getResults(c *gin.Context) {
	results, err := s.repo.ListResults(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) getWorkloadMaximization(c *gin.Context) {
	rec, err := s.repo.GetWorkloadMaximization(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no workload-maximization result for this job"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// runJob executes a submitted job to completion in the background,
// following the same System -> RG -> Heuristic (driver) -> BS pipeline as
// the CLI entrypoint (§2 data flow), then persists every stage's output.
func (s *Server) runJob(jobID, systemPath, algorithmPath string, workers int) {
	jobLog := s.log.Named("job-" + jobID)
	_ = s.repo.UpdateJob(&store.Job{ID: jobID, Status: store.JobRunning, UpdatedAt: time.Now()})

	sys, err := manifest.LoadSystem(systemPath, jobLog)
	if err != nil {
		s.fail(jobID, err)
		return
	}
	algCfg, err := manifest.LoadAlgorithmConfig(algorithmPath)
	if err != nil {
		s.fail(jobID, err)
		return
	}
	if workers < 1 {
		workers = algCfg.Workers
	}

	regs := perf.NewRegressorTable()
	checker := placement.NewChecker(sys, regs)

	dopts := driver.Options{
		Workers:   workers,
		Seed:      algCfg.Seed,
		K:         algCfg.RG.K,
		Greedy:    algCfg.GreedyOptions(algCfg.Seed),
		Heuristic: algCfg.Heuristic,
		Engine:    algCfg.Engine,
		MaxSteps:  algCfg.RG.MaxSteps,
		MaxTime:   algCfg.RG.MaxTime,
	}
	elites := driver.Run(checker, dopts, jobLog)

	for rank, r := range elites.Results() {
		rec := &store.ResultRecord{
			ID:            r.ID,
			JobID:         jobID,
			Rank:          rank,
			Cost:          r.Cost,
			Feasible:      r.Feasible,
			FailedCheck:   string(r.FailedCheck),
			ViolationRate: r.ViolationRate,
			Lambda:        r.Lambda,
			CreatedAt:     r.CreatedAt,
		}
		_ = s.repo.SaveResult(rec)
	}

	best, ok := elites.Best()
	if !ok {
		s.fail(jobID, errNoElites)
		return
	}

	bsResult := binarysearch.Maximize(checker, best.Assignment, sys.Lambda, algCfg.BS.UpperBoundLambda, algCfg.BS.Epsilon, jobLog)
	_ = s.repo.SaveWorkloadMaximization(&store.WorkloadMaximizationRecord{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Lambda:    bsResult.Lambda,
		Feasible:  bsResult.Feasible.Feasible,
		CreatedAt: time.Now(),
	})

	totalCost := best.Cost
	if totalCost == 0 && best.Feasible {
		totalCost = cost.Compute(sys, best.Assignment)
	}
	_ = s.repo.CompleteJob(jobID, store.JobCompleted, best.ID, totalCost, best.Feasible, "")
}

func (s *Server) fail(jobID string, err error) {
	s.log.Err("job %s failed: %v", jobID, err)
	_ = s.repo.CompleteJob(jobID, store.JobFailed, "", 0, false, err.Error())
}

var errNoElites = &jobError{"no candidate placements were produced"}

type jobError struct{ msg string }

func (e *jobError) Error() string { return e.msg }
