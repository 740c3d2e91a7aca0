package documentinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/pkg/logx"
	"github.com/kabalen/permitdocs/permit/document"
)

type PostgresJobRepository struct {
	db *sqlx.DB
}

func NewPostgresJobRepository(db *sqlx.DB) document.JobRepository {
	return &PostgresJobRepository{db: db}
}

// dbJob is the database model with proper JSON handling
type dbJob struct {
	ID            string  `db:"id"`
	ApplicationID string  `db:"application_id"`
	RecordID      *string `db:"record_id"`

	Category string `db:"category"`
	Status   string `db:"status"`
	FilePath string `db:"file_path"`
	FileName string `db:"file_name"`
	FileType string `db:"file_type"`

	AttemptCount int `db:"attempt_count"`
	MaxAttempts  int `db:"max_attempts"`

	ErrorMessage string         `db:"error_message"`
	ErrorDetails sql.NullString `db:"error_details"`

	CurrentStep        *string `db:"current_step"`
	ProgressPercentage int     `db:"progress_percentage"`

	CreatedAt   time.Time  `db:"created_at"`
	StartedAt   *time.Time `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
	FailedAt    *time.Time `db:"failed_at"`
	NextRetryAt *time.Time `db:"next_retry_at"`

	RequestPayload string `db:"request_payload"`
}

func (r *PostgresJobRepository) Create(ctx context.Context, job *document.VerificationJob) error {
	query := `
		INSERT INTO verification_jobs (
			id, application_id, record_id, category, status,
			file_path, file_name, file_type,
			attempt_count, max_attempts, error_message, error_details,
			current_step, progress_percentage,
			created_at, started_at, completed_at, failed_at, next_retry_at,
			request_payload
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11, $12,
			$13, $14,
			$15, $16, $17, $18, $19,
			$20
		)
	`

	dbJob, err := r.toDBJob(job)
	if err != nil {
		return fmt.Errorf("convert to db job: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		dbJob.ID, dbJob.ApplicationID, dbJob.RecordID, dbJob.Category, dbJob.Status,
		dbJob.FilePath, dbJob.FileName, dbJob.FileType,
		dbJob.AttemptCount, dbJob.MaxAttempts, dbJob.ErrorMessage, dbJob.ErrorDetails,
		dbJob.CurrentStep, dbJob.ProgressPercentage,
		dbJob.CreatedAt, dbJob.StartedAt, dbJob.CompletedAt, dbJob.FailedAt, dbJob.NextRetryAt,
		dbJob.RequestPayload,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("job already exists: %w", err)
		}
		return fmt.Errorf("create job: %w", err)
	}

	logx.Infof("Created job: %s", job.ID)
	return nil
}

func (r *PostgresJobRepository) Update(ctx context.Context, job *document.VerificationJob) error {
	query := `
		UPDATE verification_jobs SET
			record_id = $2,
			status = $3,
			attempt_count = $4,
			error_message = $5,
			error_details = $6,
			current_step = $7,
			progress_percentage = $8,
			started_at = $9,
			completed_at = $10,
			failed_at = $11,
			next_retry_at = $12,
			request_payload = $13
		WHERE id = $1
	`

	dbJob, err := r.toDBJob(job)
	if err != nil {
		return fmt.Errorf("convert to db job: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query,
		dbJob.ID,
		dbJob.RecordID,
		dbJob.Status,
		dbJob.AttemptCount,
		dbJob.ErrorMessage,
		dbJob.ErrorDetails,
		dbJob.CurrentStep,
		dbJob.ProgressPercentage,
		dbJob.StartedAt,
		dbJob.CompletedAt,
		dbJob.FailedAt,
		dbJob.NextRetryAt,
		dbJob.RequestPayload,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found: %s", job.ID)
	}

	return nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, jobID kernel.JobID) (*document.VerificationJob, error) {
	query := `
		SELECT
			id, application_id, record_id, category, status,
			file_path, file_name, file_type,
			attempt_count, max_attempts, error_message, error_details,
			current_step, progress_percentage,
			created_at, started_at, completed_at, failed_at, next_retry_at,
			request_payload
		FROM verification_jobs
		WHERE id = $1
	`

	var dbJob dbJob
	err := r.db.GetContext(ctx, &dbJob, query, jobID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("job not found: %s", jobID)
		}
		return nil, fmt.Errorf("get job: %w", err)
	}

	return r.toDomainJob(&dbJob)
}

func (r *PostgresJobRepository) ListByApplicationID(
	ctx context.Context,
	appID kernel.ApplicationID,
	pagination kernel.PaginationOptions,
) (*kernel.Paginated[document.VerificationJob], error) {
	pagination = pagination.Normalize()

	countQuery := `SELECT COUNT(*) FROM verification_jobs WHERE application_id = $1`
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, appID.String()); err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	query := `
		SELECT
			id, application_id, record_id, category, status,
			file_path, file_name, file_type,
			attempt_count, max_attempts, error_message, error_details,
			current_step, progress_percentage,
			created_at, started_at, completed_at, failed_at, next_retry_at,
			request_payload
		FROM verification_jobs
		WHERE application_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var dbJobs []dbJob
	if err := r.db.SelectContext(ctx, &dbJobs, query, appID.String(), pagination.PageSize, pagination.Offset()); err != nil {
		return nil, fmt.Errorf("get jobs: %w", err)
	}

	jobs := make([]document.VerificationJob, 0, len(dbJobs))
	for _, dbJob := range dbJobs {
		job, err := r.toDomainJob(&dbJob)
		if err != nil {
			logx.Errorf("Failed to convert job %s: %v", dbJob.ID, err)
			continue
		}
		jobs = append(jobs, *job)
	}

	totalPages := int(total) / pagination.PageSize
	if int(total)%pagination.PageSize > 0 {
		totalPages++
	}

	return &kernel.Paginated[document.VerificationJob]{
		Items:      jobs,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *PostgresJobRepository) MarkAsProcessing(ctx context.Context, jobID kernel.JobID) error {
	query := `
		UPDATE verification_jobs
		SET status = $2, started_at = $3
		WHERE id = $1 AND status = $4
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		jobID.String(),
		string(document.JobStatusProcessing),
		now,
		string(document.JobStatusPending),
	)
	if err != nil {
		return fmt.Errorf("mark as processing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found or not in pending status: %s", jobID)
	}

	logx.Infof("Marked job as processing: %s", jobID)
	return nil
}

func (r *PostgresJobRepository) MarkAsCompleted(ctx context.Context, jobID kernel.JobID, recordID kernel.VerificationID) error {
	query := `
		UPDATE verification_jobs
		SET
			status = $2,
			record_id = $3,
			completed_at = $4,
			progress_percentage = 100,
			error_message = '',
			error_details = NULL,
			next_retry_at = NULL
		WHERE id = $1
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		jobID.String(),
		string(document.JobStatusCompleted),
		recordID.String(),
		now,
	)
	if err != nil {
		return fmt.Errorf("mark as completed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}

	logx.Infof("Marked job as completed: %s, RecordID: %s", jobID, recordID)
	return nil
}

func (r *PostgresJobRepository) MarkAsFailed(
	ctx context.Context,
	jobID kernel.JobID,
	errorMsg string,
	errorDetails map[string]any,
) error {
	var errorDetailsJSON sql.NullString
	if len(errorDetails) > 0 {
		jsonBytes, err := json.Marshal(errorDetails)
		if err != nil {
			logx.Warnf("Failed to marshal error details: %v", err)
		} else {
			errorDetailsJSON = sql.NullString{
				String: string(jsonBytes),
				Valid:  true,
			}
		}
	}

	query := `
		UPDATE verification_jobs
		SET
			status = $2,
			failed_at = $3,
			error_message = $4,
			error_details = $5
		WHERE id = $1
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		jobID.String(),
		string(document.JobStatusFailed),
		now,
		errorMsg,
		errorDetailsJSON,
	)
	if err != nil {
		return fmt.Errorf("mark as failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}

	logx.Warnf("Marked job as failed: %s, Error: %s", jobID, errorMsg)
	return nil
}

func (r *PostgresJobRepository) UpdateProgress(
	ctx context.Context,
	jobID kernel.JobID,
	step document.ProcessingStep,
	percentage int,
) error {
	query := `
		UPDATE verification_jobs
		SET
			current_step = $2,
			progress_percentage = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		jobID.String(),
		string(step),
		percentage,
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}

	return nil
}

// toDBJob converts domain model to database model
func (r *PostgresJobRepository) toDBJob(job *document.VerificationJob) (*dbJob, error) {
	requestPayloadJSON, err := json.Marshal(job.RequestPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}

	var errorDetails sql.NullString
	if len(job.ErrorDetails) > 0 {
		errorDetailsJSON, err := json.Marshal(job.ErrorDetails)
		if err != nil {
			logx.Warnf("Failed to marshal error details: %v", err)
		} else {
			errorDetails = sql.NullString{
				String: string(errorDetailsJSON),
				Valid:  true,
			}
		}
	}

	var currentStep *string
	if job.CurrentStep != nil {
		stepStr := string(*job.CurrentStep)
		currentStep = &stepStr
	}

	var recordID *string
	if job.RecordID != nil {
		idStr := job.RecordID.String()
		recordID = &idStr
	}

	return &dbJob{
		ID:                 job.ID.String(),
		ApplicationID:      job.ApplicationID.String(),
		RecordID:           recordID,
		Category:           job.Category.String(),
		Status:             string(job.Status),
		FilePath:           job.FilePath,
		FileName:           job.FileName,
		FileType:           job.FileType,
		AttemptCount:       job.AttemptCount,
		MaxAttempts:        job.MaxAttempts,
		ErrorMessage:       job.ErrorMessage,
		ErrorDetails:       errorDetails,
		CurrentStep:        currentStep,
		ProgressPercentage: job.ProgressPercentage,
		CreatedAt:          job.CreatedAt,
		StartedAt:          job.StartedAt,
		CompletedAt:        job.CompletedAt,
		FailedAt:           job.FailedAt,
		NextRetryAt:        job.NextRetryAt,
		RequestPayload:     string(requestPayloadJSON),
	}, nil
}

// toDomainJob converts database model to domain model
func (r *PostgresJobRepository) toDomainJob(dbJob *dbJob) (*document.VerificationJob, error) {
	var requestPayload document.VerifyDocumentRequest
	if err := json.Unmarshal([]byte(dbJob.RequestPayload), &requestPayload); err != nil {
		return nil, fmt.Errorf("unmarshal request payload: %w", err)
	}

	var errorDetails map[string]any
	if dbJob.ErrorDetails.Valid && dbJob.ErrorDetails.String != "" {
		if err := json.Unmarshal([]byte(dbJob.ErrorDetails.String), &errorDetails); err != nil {
			logx.Warnf("Failed to unmarshal error details for job %s: %v", dbJob.ID, err)
			errorDetails = nil
		}
	}

	var currentStep *document.ProcessingStep
	if dbJob.CurrentStep != nil {
		step := document.ProcessingStep(*dbJob.CurrentStep)
		currentStep = &step
	}

	var recordID *kernel.VerificationID
	if dbJob.RecordID != nil {
		id := kernel.VerificationID(*dbJob.RecordID)
		recordID = &id
	}

	return &document.VerificationJob{
		ID:                 kernel.JobID(dbJob.ID),
		ApplicationID:      kernel.ApplicationID(dbJob.ApplicationID),
		RecordID:           recordID,
		Category:           document.Category(dbJob.Category),
		Status:             document.JobStatus(dbJob.Status),
		FilePath:           dbJob.FilePath,
		FileName:           dbJob.FileName,
		FileType:           dbJob.FileType,
		AttemptCount:       dbJob.AttemptCount,
		MaxAttempts:        dbJob.MaxAttempts,
		ErrorMessage:       dbJob.ErrorMessage,
		ErrorDetails:       errorDetails,
		CurrentStep:        currentStep,
		ProgressPercentage: dbJob.ProgressPercentage,
		CreatedAt:          dbJob.CreatedAt,
		StartedAt:          dbJob.StartedAt,
		CompletedAt:        dbJob.CompletedAt,
		FailedAt:           dbJob.FailedAt,
		NextRetryAt:        dbJob.NextRetryAt,
		RequestPayload:     requestPayload,
	}, nil
}
