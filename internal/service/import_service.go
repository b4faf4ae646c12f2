package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codepet/classroom-sync-api/internal/identity"
	"github.com/codepet/classroom-sync-api/internal/models"
	"github.com/codepet/classroom-sync-api/internal/reconcile"
	"github.com/codepet/classroom-sync-api/internal/transform"
	appErrors "github.com/codepet/classroom-sync-api/pkg/errors"
	"github.com/codepet/classroom-sync-api/pkg/jobs"
)

type mergeRepository interface {
	GetExisting(ctx context.Context, teacherID string) (models.EntitySet, error)
	Apply(ctx context.Context, result models.MergeResult) error
}

type importRunStore interface {
	Save(ctx context.Context, run *models.ImportRun) error
	Get(ctx context.Context, id string) (*models.ImportRun, error)
	ClaimSnapshot(ctx context.Context, teacherID, hash string) (bool, error)
	ReleaseSnapshot(ctx context.Context, teacherID, hash string) error
}

// ImportConfig tunes the import pipeline.
type ImportConfig struct {
	WorkerConcurrency int
	QueueSize         int
}

// ImportService runs the snapshot import pipeline: validate, dedupe,
// transform, reconcile against persisted state, and apply the merge result
// atomically. Imports are queued and processed by a worker pool; re-running
// the same snapshot is a no-op by construction, so queue retries are safe.
type ImportService struct {
	repo        mergeRepository
	runs        importRunStore
	transformer *transform.Transformer
	engine      *reconcile.Engine
	queue       *jobs.Queue
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     *MetricsService
}

type importPayload struct {
	run      *models.ImportRun
	snapshot models.ClassroomSnapshot
}

// NewImportService constructs an ImportService with its own worker queue.
func NewImportService(repo mergeRepository, runs importRunStore, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, cfg ImportConfig) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}

	s := &ImportService{
		repo:        repo,
		runs:        runs,
		transformer: transform.NewTransformer(logger),
		engine:      reconcile.NewEngine(),
		validator:   validate,
		logger:      logger,
		metrics:     metrics,
	}
	s.queue = jobs.NewQueue("snapshot-imports", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		BufferSize: cfg.QueueSize,
		Logger:     logger,
	})
	return s
}

// Start launches the import workers.
func (s *ImportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the import workers.
func (s *ImportService) Stop() {
	s.queue.Stop()
}

// EnqueueSnapshot validates and queues a snapshot for import. An identical
// snapshot seen inside the dedupe window short-circuits to a skipped run.
func (s *ImportService) EnqueueSnapshot(ctx context.Context, snapshot models.ClassroomSnapshot) (*models.ImportRun, error) {
	if err := s.validator.Struct(snapshot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSnapshotInvalid.Code, appErrors.ErrSnapshotInvalid.Status, "snapshot failed validation")
	}

	teacherID := identity.TeacherID(snapshot.Teacher.Email)
	hash, err := snapshotHash(snapshot)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fingerprint snapshot")
	}

	run := &models.ImportRun{
		ID:           uuid.NewString(),
		TeacherID:    teacherID,
		TeacherEmail: snapshot.Teacher.Email,
		SnapshotHash: hash,
		StartedAt:    time.Now().UTC(),
	}

	fresh, err := s.runs.ClaimSnapshot(ctx, teacherID, hash)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check snapshot dedupe")
	}
	if !fresh {
		run.Status = models.ImportStatusSkipped
		finished := time.Now().UTC()
		run.FinishedAt = &finished
		if err := s.runs.Save(ctx, run); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record skipped run")
		}
		s.metrics.ObserveImport(models.ImportStatusSkipped, 0)
		s.logger.Info("snapshot already imported, skipping",
			zap.String("teacher_id", teacherID), zap.String("hash", hash))
		return run, nil
	}

	run.Status = models.ImportStatusQueued
	if err := s.runs.Save(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record import run")
	}

	job := jobs.Job{
		ID:      run.ID,
		Type:    "snapshot_import",
		Payload: importPayload{run: run, snapshot: snapshot},
	}
	if err := s.queue.Enqueue(job); err != nil {
		run.Status = models.ImportStatusFailed
		run.Error = "import queue unavailable"
		finished := time.Now().UTC()
		run.FinishedAt = &finished
		_ = s.runs.Save(ctx, run)
		_ = s.runs.ReleaseSnapshot(ctx, teacherID, hash)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue import")
	}

	return run, nil
}

// GetRun fetches one import run by ID.
func (s *ImportService) GetRun(ctx context.Context, id string) (*models.ImportRun, error) {
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load import run")
	}
	if run == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "import run not found")
	}
	return run, nil
}

func (s *ImportService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(importPayload)
	if !ok {
		s.logger.Error("discarding job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.Process(ctx, payload.run, payload.snapshot)
}

// Process executes one import run synchronously. Exported so tests and
// one-shot tooling can drive the pipeline without the queue.
func (s *ImportService) Process(ctx context.Context, run *models.ImportRun, snapshot models.ClassroomSnapshot) error {
	started := time.Now()

	run.Status = models.ImportStatusRunning
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.Warn("failed to mark run running", zap.String("run_id", run.ID), zap.Error(err))
	}

	existing, err := s.repo.GetExisting(ctx, run.TeacherID)
	if err != nil {
		return s.failRun(ctx, run, fmt.Errorf("load existing state: %w", err))
	}

	candidates := s.transformer.Transform(snapshot)
	result := s.engine.Reconcile(candidates, existing, time.Now().UTC())

	if err := s.repo.Apply(ctx, result); err != nil {
		return s.failRun(ctx, run, fmt.Errorf("apply merge result: %w", err))
	}

	counts := result.Counts()
	run.Status = models.ImportStatusCompleted
	run.Counts = &counts
	run.Warnings = result.Warnings
	finished := time.Now().UTC()
	run.FinishedAt = &finished
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.Warn("failed to record completed run", zap.String("run_id", run.ID), zap.Error(err))
	}

	s.metrics.ObserveImport(models.ImportStatusCompleted, time.Since(started))
	s.metrics.ObserveMerge(result)
	s.logger.Info("snapshot import completed",
		zap.String("run_id", run.ID),
		zap.String("teacher_id", run.TeacherID),
		zap.Int("classrooms_created", counts.ClassroomsCreated),
		zap.Int("submissions_created", counts.SubmissionsCreated),
		zap.Int("enrollments_archived", counts.EnrollmentsArchived),
		zap.Int("warnings", counts.Warnings),
		zap.Duration("duration", time.Since(started)))

	return nil
}

func (s *ImportService) failRun(ctx context.Context, run *models.ImportRun, cause error) error {
	run.Status = models.ImportStatusFailed
	run.Error = cause.Error()
	finished := time.Now().UTC()
	run.FinishedAt = &finished
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.Warn("failed to record failed run", zap.String("run_id", run.ID), zap.Error(err))
	}
	// Drop the dedupe claim so the caller can resubmit the same snapshot.
	if err := s.runs.ReleaseSnapshot(ctx, run.TeacherID, run.SnapshotHash); err != nil {
		s.logger.Warn("failed to release dedupe claim", zap.String("run_id", run.ID), zap.Error(err))
	}
	s.metrics.ObserveImport(models.ImportStatusFailed, 0)
	s.logger.Error("snapshot import failed", zap.String("run_id", run.ID), zap.Error(cause))
	return cause
}

// snapshotHash fingerprints a snapshot for dedupe. JSON marshaling of the
// typed snapshot is deterministic for a given struct layout.
func snapshotHash(snapshot models.ClassroomSnapshot) (string, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
