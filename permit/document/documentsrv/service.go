package documentsrv

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kabalen/permitdocs/internal/metrics"
	"github.com/kabalen/permitdocs/internal/ocr"
	"github.com/kabalen/permitdocs/internal/pdf"
	"github.com/kabalen/permitdocs/pkg/fsx"
	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/pkg/logx"
	"github.com/kabalen/permitdocs/permit/document"
)

// Progress bands of one verification attempt. Rasterization owns 0-40,
// recognition 40-80, classification and persistence 80-100. The bands are a
// UI convention; the hard requirement is monotonic non-decreasing progress
// ending at 100 on every path.
const (
	progressRasterDone = 40
	progressOCRDone    = 80
	progressDone       = 100
)

// Service orchestrates document verification
type Service struct {
	repo       document.Repository
	jobRepo    document.JobRepository
	queue      document.JobQueue
	fileStore  fsx.FileSystem
	ocrFactory ocr.Factory
	raster     document.Rasterizer

	states *stateStore
}

func NewService(
	repo document.Repository,
	jobRepo document.JobRepository,
	queue document.JobQueue,
	fileStore fsx.FileSystem,
	ocrFactory ocr.Factory,
	raster document.Rasterizer,
) *Service {
	if raster == nil {
		raster = FitzRasterizer{}
	}
	return &Service{
		repo:       repo,
		jobRepo:    jobRepo,
		queue:      queue,
		fileStore:  fileStore,
		ocrFactory: ocrFactory,
		raster:     raster,
		states:     newStateStore(),
	}
}

// State returns the live state of one verification slot
func (s *Service) State(appID kernel.ApplicationID, category document.Category) document.State {
	return s.states.get(slotKey(appID, category))
}

// VerifyDocument runs the whole pipeline synchronously for an inline upload
// and persists the outcome. All pipeline failures are converted into an
// errored verdict here; no error escapes to the transport layer except
// input validation and the in-flight guard.
func (s *Service) VerifyDocument(ctx context.Context, req document.VerifyDocumentRequest) (*document.VerifyDocumentResponse, error) {
	if !req.Category.IsKnown() {
		return nil, document.ErrUnknownCategory().WithDetail("category", req.Category.String())
	}
	if len(req.FileData) == 0 {
		// Input error: surfaced immediately, consumes no OCR resources
		return nil, document.ErrNoFile().WithDetail("category", req.Category.String())
	}

	key := slotKey(req.ApplicationID, req.Category)
	if !s.states.tryStartVerifying(key) {
		return nil, document.ErrVerificationInFlight().
			WithDetail("application_id", req.ApplicationID).
			WithDetail("category", req.Category.String())
	}

	started := time.Now()
	verdict, err := s.runPipeline(ctx, req.Category, req.Expected, req.FileData, func(p int) {
		s.states.setProgress(key, p)
	})

	record := &document.Record{
		ID:            kernel.NewVerificationID(uuid.NewString()),
		ApplicationID: req.ApplicationID,
		Category:      req.Category,
		FileName:      req.FileName,
		FileType:      req.FileType,
		CreatedAt:     started,
	}
	now := time.Now()
	record.CompletedAt = &now

	var outcome string
	switch {
	case err != nil:
		record.Status = document.StatusErrored
		record.ErrorMessage = err.Error()
		record.InvalidReasons = []string{"The document may be unreadable or unclear."}
		s.states.finishErrored(key, err.Error())
		outcome = "errored"
	case verdict.IsVerified:
		record.Status = document.StatusVerified
		record.Verdict = verdict
		s.states.finishVerified(key, verdict)
		outcome = "verified"
	default:
		record.Status = document.StatusRejected
		record.Verdict = verdict
		record.InvalidReasons = verdict.InvalidReasons
		s.states.finishRejected(key, verdict)
		outcome = "rejected"
	}

	metrics.CountVerification(req.Category.String(), outcome, time.Since(started))

	if createErr := s.repo.Create(ctx, record); createErr != nil {
		logx.Errorf("Failed to store verification record for %s/%s: %v", req.ApplicationID, req.Category, createErr)
	}

	if verdict == nil {
		verdict = &document.Verdict{
			IsVerified:     false,
			InvalidReasons: record.InvalidReasons,
		}
	}

	return &document.VerifyDocumentResponse{
		RecordID:       record.ID,
		ApplicationID:  req.ApplicationID,
		Category:       req.Category,
		DocumentType:   req.Category.Label(),
		FileName:       req.FileName,
		IsVerified:     verdict.IsVerified,
		Results:        verdict.Results,
		InvalidReasons: verdict.InvalidReasons,
	}, nil
}

// runPipeline extracts text from the upload and evaluates the verdict.
// The returned error represents parse/recognition failures only; a negative
// verdict is a normal result, not an error.
func (s *Service) runPipeline(
	ctx context.Context,
	category document.Category,
	expected document.ExpectedFields,
	fileData []byte,
	onProgress func(int),
) (verdict *document.Verdict, err error) {
	progress := newProgressTracker(onProgress)
	// Progress terminates at 100 on success and failure alike
	defer progress.set(progressDone)

	// The worker is created up front so teardown covers rasterization
	// failures too; it must be terminated exactly once on every path.
	worker, err := s.ocrFactory.NewWorker(ctx)
	if err != nil {
		return nil, fmt.Errorf("create ocr worker: %w", err)
	}
	defer func() {
		if termErr := worker.Terminate(); termErr != nil {
			logx.Warnf("Failed to terminate OCR worker: %v", termErr)
		}
	}()

	text, err := s.extractText(ctx, worker, fileData, progress)
	if err != nil {
		return nil, err
	}
	progress.set(progressOCRDone)

	verdict = evaluate(category, expected, text)
	return verdict, nil
}

// extractText produces the OCR (or text-layer) text for a file
func (s *Service) extractText(ctx context.Context, worker ocr.Worker, fileData []byte, progress *progressTracker) (string, error) {
	if !s.raster.IsPDF(fileData) {
		// Single image: fold the engine's own progress into the 40-80 band
		progress.set(progressRasterDone)
		text, err := worker.Recognize(ctx, fileData, func(p int) {
			progress.set(progressRasterDone + p*40/100)
		})
		if err != nil {
			return "", fmt.Errorf("recognize image: %w", err)
		}
		metrics.OCRPagesProcessed.Inc()
		return text, nil
	}

	// Scanned forms usually carry no text layer, but digitally issued
	// permits do; when one exists OCR is skipped entirely.
	if text, ok := s.raster.TextLayer(fileData); ok {
		progress.set(progressOCRDone)
		return text, nil
	}

	pages, err := s.raster.Rasterize(fileData)
	if err != nil {
		return "", fmt.Errorf("rasterize pdf: %w", err)
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("rasterize pdf: no pages rendered")
	}
	progress.set(progressRasterDone)

	var parts []string
	total := len(pages)
	for i, page := range pages {
		text, err := worker.Recognize(ctx, page, nil)
		if err != nil {
			return "", fmt.Errorf("recognize page %d: %w", i+1, err)
		}
		parts = append(parts, text)
		metrics.OCRPagesProcessed.Inc()

		done := i + 1
		progress.set(progressRasterDone + int(math.Round(float64(done)/float64(total)*40)))
	}

	return strings.Join(parts, "\n"), nil
}

func slotKey(appID kernel.ApplicationID, category document.Category) string {
	return appID.String() + "|" + category.String()
}

// FitzRasterizer implements document.Rasterizer on go-fitz and the embedded
// text-layer reader
type FitzRasterizer struct{}

func (FitzRasterizer) IsPDF(data []byte) bool { return pdf.IsPDF(data) }

func (FitzRasterizer) TextLayer(data []byte) (string, bool) {
	return pdf.ExtractTextLayer(data)
}

func (FitzRasterizer) Rasterize(data []byte) ([][]byte, error) {
	return pdf.ConvertPDFToImages(data)
}

// progressTracker keeps reported progress monotonically non-decreasing
type progressTracker struct {
	mu      sync.Mutex
	current int
	report  func(int)
}

func newProgressTracker(report func(int)) *progressTracker {
	if report == nil {
		report = func(int) {}
	}
	t := &progressTracker{report: report}
	t.report(0)
	return t
}

func (t *progressTracker) set(p int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p > progressDone {
		p = progressDone
	}
	if p <= t.current {
		return
	}
	t.current = p
	t.report(p)
}
