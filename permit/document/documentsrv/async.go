package documentsrv

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kabalen/permitdocs/internal/metrics"
	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/pkg/logx"
	"github.com/kabalen/permitdocs/permit/document"
)

// VerifyDocumentAsync - Queue the uploaded document for background verification
func (s *Service) VerifyDocumentAsync(ctx context.Context, req document.VerifyDocumentRequest) (*document.JobStatusResponse, error) {
	logx.Infof("Queueing document for async verification: ApplicationID=%s, Category=%s, File=%s",
		req.ApplicationID, req.Category, req.FileName)

	if !req.Category.IsKnown() {
		return nil, document.ErrUnknownCategory().WithDetail("category", req.Category.String())
	}
	if req.FilePath == "" {
		return nil, document.ErrNoFile().
			WithDetail("application_id", req.ApplicationID).
			WithDetail("category", req.Category.String())
	}

	jobID := kernel.NewJobID(uuid.NewString())
	job := &document.VerificationJob{
		ID:                 jobID,
		ApplicationID:      req.ApplicationID,
		Category:           req.Category,
		Status:             document.JobStatusPending,
		FilePath:           req.FilePath,
		FileName:           req.FileName,
		FileType:           req.FileType,
		AttemptCount:       0,
		MaxAttempts:        3,
		ProgressPercentage: 0,
		CreatedAt:          time.Now(),
		RequestPayload:     req,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, document.ErrJobCreationFailed().
			WithDetail("application_id", req.ApplicationID).
			WithDetail("file_name", req.FileName).
			WithDetails(map[string]any{
				"error": err.Error(),
			})
	}

	if err := s.queue.Enqueue(ctx, jobID, job); err != nil {
		// Mark job as failed if we can't queue it
		_ = s.jobRepo.MarkAsFailed(ctx, jobID, "failed to enqueue", map[string]any{
			"error": err.Error(),
		})

		return nil, document.ErrQueueEnqueueFailed().
			WithDetail("job_id", jobID).
			WithDetail("application_id", req.ApplicationID).
			WithDetails(map[string]any{
				"error": err.Error(),
			})
	}

	logx.Infof("Job queued successfully: JobID=%s", jobID)

	return &document.JobStatusResponse{
		JobID:         jobID,
		ApplicationID: req.ApplicationID,
		Category:      req.Category,
		Status:        document.JobStatusPending,
		Message:       "Document queued for verification",
		Progress:      0,
		CreatedAt:     job.CreatedAt,
	}, nil
}

// ProcessVerificationJob - Worker function to process a queued verification
func (s *Service) ProcessVerificationJob(ctx context.Context, job *document.VerificationJob) error {
	logx.Infof("Processing job: JobID=%s, Attempt=%d/%d", job.ID, job.AttemptCount+1, job.MaxAttempts)

	if err := s.jobRepo.MarkAsProcessing(ctx, job.ID); err != nil {
		return document.ErrJobUpdateFailed().
			WithDetail("job_id", job.ID).
			WithDetail("status", "processing").
			WithDetails(map[string]any{
				"error": err.Error(),
			})
	}

	key := slotKey(job.ApplicationID, job.Category)
	if !s.states.tryStartVerifying(key) {
		return s.handleJobError(ctx, job, "verification_in_flight",
			fmt.Errorf("another verification is running for %s/%s", job.ApplicationID, job.Category))
	}

	fileData, err := s.fileStore.ReadFile(ctx, job.FilePath)
	if err != nil {
		s.states.finishErrored(key, err.Error())
		return s.handleJobError(ctx, job, "file_read_failed", err)
	}

	started := time.Now()
	verdict, procErr := s.runPipeline(ctx, job.Category, job.RequestPayload.Expected, fileData, func(p int) {
		s.states.setProgress(key, p)
		_ = s.jobRepo.UpdateProgress(ctx, job.ID, stepForProgress(p), jobProgress(p))
	})
	if procErr != nil {
		s.states.finishErrored(key, procErr.Error())
		metrics.CountVerification(job.Category.String(), "errored", time.Since(started))
		return s.handleJobError(ctx, job, "verification_failed", procErr)
	}

	record := &document.Record{
		ID:            kernel.NewVerificationID(uuid.NewString()),
		ApplicationID: job.ApplicationID,
		Category:      job.Category,
		FileName:      job.FileName,
		FilePath:      job.FilePath,
		FileType:      job.FileType,
		Verdict:       verdict,
		CreatedAt:     job.CreatedAt,
	}
	now := time.Now()
	record.CompletedAt = &now

	var outcome string
	if verdict.IsVerified {
		record.Status = document.StatusVerified
		s.states.finishVerified(key, verdict)
		outcome = "verified"
	} else {
		record.Status = document.StatusRejected
		record.InvalidReasons = verdict.InvalidReasons
		s.states.finishRejected(key, verdict)
		outcome = "rejected"
	}
	metrics.CountVerification(job.Category.String(), outcome, time.Since(started))

	_ = s.jobRepo.UpdateProgress(ctx, job.ID, document.StepSaving, 90)

	if err := s.repo.Create(ctx, record); err != nil {
		return s.handleJobError(ctx, job, "save_failed", err)
	}

	// Rejected uploads lose their stored file so the applicant re-supplies it
	if record.Status == document.StatusRejected {
		if delErr := s.fileStore.DeleteFile(ctx, job.FilePath); delErr != nil {
			logx.Warnf("Failed to delete rejected upload %s: %v", job.FilePath, delErr)
		}
		record.FilePath = ""
		_ = s.repo.ClearFilePath(ctx, record.ID)
	}

	if err := s.jobRepo.MarkAsCompleted(ctx, job.ID, record.ID); err != nil {
		logx.Errorf("Failed to mark job as completed: %v", err)
		// Don't fail the job if we can't update status, the record was stored
	}
	_ = s.jobRepo.UpdateProgress(ctx, job.ID, document.StepSaving, 100)

	logx.Infof("Job completed: JobID=%s, RecordID=%s, Status=%s", job.ID, record.ID, record.Status)
	return nil
}

// handleJobError handles job processing errors with retry logic
func (s *Service) handleJobError(ctx context.Context, job *document.VerificationJob, errorType string, err error) error {
	job.AttemptCount++

	errorDetails := map[string]any{
		"error":        err.Error(),
		"error_type":   errorType,
		"attempt":      job.AttemptCount,
		"max_attempts": job.MaxAttempts,
		"file_path":    job.FilePath,
		"file_name":    job.FileName,
	}

	if job.AttemptCount < job.MaxAttempts {
		// Exponential backoff: 2^attempt minutes
		retryDelay := time.Duration(1<<uint(job.AttemptCount)) * time.Minute
		nextRetry := time.Now().Add(retryDelay)
		job.NextRetryAt = &nextRetry

		logx.Warnf("Job failed, will retry: JobID=%s, Attempt=%d/%d, NextRetry=%v, Error=%s",
			job.ID, job.AttemptCount, job.MaxAttempts, nextRetry, errorType)

		if queueErr := s.queue.EnqueueDelayed(ctx, job.ID, job, retryDelay); queueErr != nil {
			logx.Errorf("Failed to enqueue for retry: %v", queueErr)

			_ = s.jobRepo.MarkAsFailed(ctx, job.ID,
				fmt.Sprintf("%s (retry enqueue failed)", errorType),
				errorDetails)

			return document.ErrQueueEnqueueFailed().
				WithDetail("job_id", job.ID).
				WithDetail("error_type", errorType).
				WithDetails(errorDetails)
		}

		job.ErrorMessage = fmt.Sprintf("%s (will retry)", errorType)
		job.ErrorDetails = errorDetails
		job.Status = document.JobStatusPending

		if updateErr := s.jobRepo.Update(ctx, job); updateErr != nil {
			logx.Errorf("Failed to update job for retry: %v", updateErr)
		}

		return document.ErrJobUpdateFailed().
			WithDetail("job_id", job.ID).
			WithDetail("error_type", errorType).
			WithDetail("will_retry", true).
			WithDetail("next_retry_at", nextRetry).
			WithDetails(errorDetails)
	}

	logx.Errorf("Job permanently failed: JobID=%s, Error=%s, Attempts=%d/%d",
		job.ID, errorType, job.AttemptCount, job.MaxAttempts)

	_ = s.jobRepo.MarkAsFailed(ctx, job.ID, errorType, errorDetails)

	return document.ErrJobUpdateFailed().
		WithDetail("job_id", job.ID).
		WithDetail("error_type", errorType).
		WithDetail("final_attempt", job.AttemptCount).
		WithDetails(errorDetails)
}

// GetJobStatus retrieves the current status of a job
func (s *Service) GetJobStatus(ctx context.Context, jobID kernel.JobID) (*document.JobStatusResponse, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, document.ErrJobNotFound().
			WithDetail("job_id", jobID)
	}

	response := &document.JobStatusResponse{
		JobID:         job.ID,
		ApplicationID: job.ApplicationID,
		Category:      job.Category,
		Status:        job.Status,
		Progress:      job.ProgressPercentage,
		CreatedAt:     job.CreatedAt,
	}

	switch job.Status {
	case document.JobStatusPending:
		if job.AttemptCount > 0 {
			response.Message = fmt.Sprintf("Job pending retry (attempt %d/%d)", job.AttemptCount, job.MaxAttempts)
		} else {
			response.Message = "Job queued and waiting to be processed"
		}
		response.NextRetryAt = job.NextRetryAt

	case document.JobStatusProcessing:
		response.Message = "Verifying document"
		if job.CurrentStep != nil {
			response.Message = fmt.Sprintf("Verifying document: %s", *job.CurrentStep)
		}
		response.CurrentStep = job.CurrentStep
		response.StartedAt = job.StartedAt

	case document.JobStatusCompleted:
		response.Message = "Document verification finished"
		response.RecordID = job.RecordID
		response.CompletedAt = job.CompletedAt

	case document.JobStatusFailed:
		response.Message = job.ErrorMessage
		response.Error = &document.JobError{
			Message: job.ErrorMessage,
			Details: job.ErrorDetails,
		}
		response.FailedAt = job.FailedAt
		response.AttemptCount = job.AttemptCount
	}

	return response, nil
}

// ListJobs retrieves verification jobs for an application
func (s *Service) ListJobs(ctx context.Context, appID kernel.ApplicationID, pagination kernel.PaginationOptions) (*kernel.Paginated[document.VerificationJob], error) {
	jobs, err := s.jobRepo.ListByApplicationID(ctx, appID, pagination)
	if err != nil {
		return nil, document.ErrRegistry.NewWithCause(document.CodeJobNotFound, err).
			WithDetail("application_id", appID)
	}
	return jobs, nil
}

// stepForProgress maps pipeline progress to the coarse job step
func stepForProgress(p int) document.ProcessingStep {
	switch {
	case p < progressRasterDone:
		return document.StepRasterizing
	case p < progressOCRDone:
		return document.StepRecognizing
	case p < progressDone:
		return document.StepClassifying
	default:
		return document.StepSaving
	}
}

// jobProgress compresses pipeline progress into the 0-85 band so the saving
// step still has headroom before the job is marked completed
func jobProgress(p int) int {
	scaled := p * 85 / 100
	if scaled > 85 {
		scaled = 85
	}
	return scaled
}
