package applications

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"hirehub-backend/internal/candidates"
	"hirehub-backend/internal/extract"
	"hirehub-backend/internal/jobs"
	"hirehub-backend/internal/llm"
	"hirehub-backend/internal/queue"
	"hirehub-backend/internal/shared/metrics"
	"hirehub-backend/internal/shared/storage/object"
	"hirehub-backend/internal/shared/telemetry"
)

const messageVersion = 1

// Applicant carries the self-reported identity fields from the apply form.
type Applicant struct {
	FullName string
	Email    string
	Phone    string
}

// Service coordinates the application bridge: the synchronous submit path
// and the asynchronous enrichment pipeline.
type Service struct {
	Candidates candidates.Repo
	Jobs       jobs.Resolver
	Store      object.ObjectStore
	Analyzer   *llm.Analyzer
	Queue      queue.Client
}

// Submit validates the application, stores the CV, creates the Pending
// candidate, and enqueues the enrichment request. It never waits on
// extraction or analysis.
func (s *Service) Submit(ctx context.Context, jobID int, applicant Applicant, fileName, contentType string, file io.Reader) (candidates.Candidate, error) {
	applicant.FullName = strings.TrimSpace(applicant.FullName)
	applicant.Email = strings.TrimSpace(applicant.Email)
	applicant.Phone = strings.TrimSpace(applicant.Phone)
	if applicant.FullName == "" {
		return candidates.Candidate{}, fmt.Errorf("%w: fullName is required", ErrInvalidInput)
	}
	if applicant.Email == "" {
		return candidates.Candidate{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if err := validateCVFile(fileName, contentType); err != nil {
		return candidates.Candidate{}, err
	}

	// Peek before persisting anything so an empty upload leaves no trace.
	buffered := bufio.NewReader(file)
	if _, err := buffered.Peek(1); err != nil {
		return candidates.Candidate{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	exists, err := s.Jobs.Exists(ctx, jobID)
	if err != nil {
		return candidates.Candidate{}, err
	}
	if !exists {
		return candidates.Candidate{}, ErrJobNotFound
	}

	storageKey, _, _, err := s.Store.Save(ctx, jobID, fileName, buffered)
	if err != nil {
		return candidates.Candidate{}, err
	}

	candidate := candidates.Candidate{
		ID:         uuid.NewString(),
		JobID:      jobID,
		FullName:   applicant.FullName,
		Email:      applicant.Email,
		Phone:      applicant.Phone,
		CVFileName: fileName,
		CVFileKey:  storageKey,
		Status:     candidates.StatusPending,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.Candidates.Create(ctx, candidate); err != nil {
		return candidates.Candidate{}, err
	}

	s.enqueue(ctx, candidate.ID)
	return candidate, nil
}

// enqueue hands the candidate to the enrichment queue. Delivery faults do
// not fail the submit: the record exists and stays Pending without analysis.
func (s *Service) enqueue(ctx context.Context, candidateID string) {
	msg := queue.Message{
		CandidateID: candidateID,
		RequestID:   RequestIDFromContext(ctx),
		EnqueuedAt:  time.Now().UTC().Format(time.RFC3339),
		Version:     messageVersion,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		if errors.Is(err, queue.ErrQueueFull) {
			metrics.IncEnrichmentRejected()
		}
		telemetry.Error("enrichment.enqueue.failed", map[string]any{
			"candidate_id": candidateID,
			"request_id":   msg.RequestID,
			"error":        err.Error(),
		})
	}
}

// ProcessEnrichment runs the detached pipeline for one candidate: extract
// text, analyze, store the result. Extraction and analysis faults degrade
// the result instead of failing the run; only store faults are returned so
// the queue backend can retry.
func (s *Service) ProcessEnrichment(ctx context.Context, candidateID string) error {
	started := time.Now()
	metrics.IncEnrichmentStarted()

	candidate, err := s.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("load candidate %s: %w", candidateID, err)
	}

	requirements, err := s.Jobs.Requirements(ctx, candidate.JobID)
	if err != nil {
		if !errors.Is(err, jobs.ErrNotFound) {
			return fmt.Errorf("load job %d requirements: %w", candidate.JobID, err)
		}
		// Posting removed after the application came in. Analyze anyway.
		telemetry.Warn("enrichment.job.missing", map[string]any{
			"candidate_id": candidateID,
			"job_id":       candidate.JobID,
		})
		requirements = ""
	}

	text := extract.CVText(ctx, s.Store, candidate.CVFileKey, candidate.CVFileName)

	analysis := s.Analyzer.Analyze(ctx, llm.AnalyzeInput{
		CVText:          text,
		JobRequirements: requirements,
	})

	updated, err := s.Candidates.SetAnalysis(ctx, candidateID, analysis)
	if err != nil {
		return fmt.Errorf("store analysis for candidate %s: %w", candidateID, err)
	}
	if !updated {
		telemetry.Warn("enrichment.candidate.gone", map[string]any{
			"candidate_id": candidateID,
		})
		return nil
	}

	metrics.IncEnrichmentCompleted()
	metrics.ObserveEnrichmentDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("enrichment.complete", map[string]any{
		"candidate_id": candidateID,
		"request_id":   RequestIDFromContext(ctx),
		"job_id":       candidate.JobID,
		"score":        analysis.OverallScore,
		"duration_ms":  time.Since(started).Milliseconds(),
	})
	return nil
}

// Get returns a candidate scoped to a job. A candidate belonging to a
// different job is reported as absent, not as a conflict.
func (s *Service) Get(ctx context.Context, jobID int, id string) (candidates.Candidate, error) {
	candidate, err := s.Candidates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return candidates.Candidate{}, ErrCandidateNotFound
		}
		return candidates.Candidate{}, err
	}
	if candidate.JobID != jobID {
		return candidates.Candidate{}, ErrCandidateNotFound
	}
	return candidate, nil
}

// List returns candidates for a job, newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, jobID int, status string) ([]candidates.Candidate, error) {
	if status != "" && !candidates.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, status)
	}
	exists, err := s.Jobs.Exists(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrJobNotFound
	}
	return s.Candidates.ListByJob(ctx, jobID, status)
}

// Count returns the number of candidates for a job.
func (s *Service) Count(ctx context.Context, jobID int) (int, error) {
	exists, err := s.Jobs.Exists(ctx, jobID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrJobNotFound
	}
	return s.Candidates.CountByJob(ctx, jobID)
}

// UpdateStatus moves a Pending candidate to Approved or Rejected. Status is
// the only mutable identity field; the analysis column is untouched.
func (s *Service) UpdateStatus(ctx context.Context, jobID int, id, status string) error {
	if status != candidates.StatusApproved && status != candidates.StatusRejected {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	candidate, err := s.Get(ctx, jobID, id)
	if err != nil {
		return err
	}
	if candidate.Status != candidates.StatusPending {
		return fmt.Errorf("%w: status is %s", ErrAlreadyDecided, candidate.Status)
	}
	updated, err := s.Candidates.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: candidate is no longer updatable", ErrInvalidStatus)
	}
	return nil
}

// OpenCV streams the stored CV for a candidate.
func (s *Service) OpenCV(ctx context.Context, jobID int, id string) (io.ReadCloser, candidates.Candidate, error) {
	candidate, err := s.Get(ctx, jobID, id)
	if err != nil {
		return nil, candidates.Candidate{}, err
	}
	reader, err := s.Store.Open(ctx, candidate.CVFileKey)
	if err != nil {
		return nil, candidates.Candidate{}, err
	}
	return reader, candidate, nil
}

// validateCVFile enforces the single accepted upload format.
func validateCVFile(fileName, contentType string) error {
	if strings.TrimSpace(fileName) == "" {
		return fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	declared := contentType
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		declared = mediaType
	}
	if ext == ".pdf" || declared == "application/pdf" {
		return nil
	}
	return fmt.Errorf("%w: only PDF files are accepted", ErrInvalidInput)
}
