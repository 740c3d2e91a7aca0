package document

import (
	"context"
	"time"

	"github.com/kabalen/permitdocs/pkg/kernel"
)

// Repository persists verification outcomes
type Repository interface {
	// Create stores a new verification record
	Create(ctx context.Context, record *Record) error

	// Update replaces an existing record
	Update(ctx context.Context, record *Record) error

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id kernel.VerificationID) (*Record, error)

	// ListByApplicationID retrieves all records for an application, newest first
	ListByApplicationID(ctx context.Context, appID kernel.ApplicationID) ([]*Record, error)

	// GetLatest retrieves the most recent record for one (application, category) slot
	GetLatest(ctx context.Context, appID kernel.ApplicationID, category Category) (*Record, error)

	// ClearFilePath drops the stored file reference of a record; rejected
	// uploads are cleared so the applicant must re-supply the file
	ClearFilePath(ctx context.Context, id kernel.VerificationID) error
}

// JobRepository persists asynchronous verification jobs
type JobRepository interface {
	Create(ctx context.Context, job *VerificationJob) error
	Update(ctx context.Context, job *VerificationJob) error
	GetByID(ctx context.Context, jobID kernel.JobID) (*VerificationJob, error)
	ListByApplicationID(ctx context.Context, appID kernel.ApplicationID, pagination kernel.PaginationOptions) (*kernel.Paginated[VerificationJob], error)

	// Update status helpers
	MarkAsProcessing(ctx context.Context, jobID kernel.JobID) error
	MarkAsCompleted(ctx context.Context, jobID kernel.JobID, recordID kernel.VerificationID) error
	MarkAsFailed(ctx context.Context, jobID kernel.JobID, errorMsg string, errorDetails map[string]any) error
	UpdateProgress(ctx context.Context, jobID kernel.JobID, step ProcessingStep, percentage int) error
}

// JobQueue is the transport between API and workers
type JobQueue interface {
	// Enqueue adds a job to the queue
	Enqueue(ctx context.Context, jobID kernel.JobID, payload any) error

	// Dequeue gets a job from the queue (blocking with timeout)
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)

	// EnqueueDelayed schedules a job for later processing (for retries)
	EnqueueDelayed(ctx context.Context, jobID kernel.JobID, payload any, delay time.Duration) error

	// MoveDelayedToReady moves delayed jobs that are ready to the main queue
	MoveDelayedToReady(ctx context.Context) (int, error)

	// GetQueueSize returns the number of jobs in the queue
	GetQueueSize(ctx context.Context) (int64, error)
}

// Rasterizer turns PDFs into OCR input. The concrete implementation renders
// through go-fitz; tests substitute a fake.
type Rasterizer interface {
	// IsPDF sniffs whether data is a PDF
	IsPDF(data []byte) bool

	// TextLayer extracts embedded PDF text when a usable layer exists
	TextLayer(data []byte) (text string, ok bool)

	// Rasterize renders the leading pages of a PDF to images, in page order
	Rasterize(data []byte) ([][]byte, error)
}
