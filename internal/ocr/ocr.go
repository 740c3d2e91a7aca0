// Package ocr abstracts text recognition behind a per-call worker so the
// engine is swappable and testable with a fake.
//
// A Worker serves exactly one verification attempt: the orchestrator creates
// it through a Factory, feeds it one image per page, and must Terminate it on
// every code path so engine resources are never leaked across calls.
package ocr

import "context"

// Language is fixed for all recognition; permit documents are English-form
const Language = "eng"

// ProgressFunc receives recognition progress in [0,100]
type ProgressFunc func(percent int)

// Worker recognizes text from images
type Worker interface {
	// Recognize extracts plain text from one image, reporting incremental
	// progress through onProgress (which may be nil).
	Recognize(ctx context.Context, imageData []byte, onProgress ProgressFunc) (string, error)

	// Terminate releases the worker's resources. Callers must invoke it
	// exactly once, regardless of the recognition outcome.
	Terminate() error
}

// Factory creates one Worker per verification call; workers are never reused
// across calls to avoid progress-callback leakage between them.
type Factory interface {
	NewWorker(ctx context.Context) (Worker, error)
}
