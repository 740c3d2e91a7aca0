package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kabalen/permitdocs/pkg/logx"
	"github.com/kabalen/permitdocs/permit/document"
	"github.com/kabalen/permitdocs/permit/document/documentsrv"
)

type VerificationWorker struct {
	service *documentsrv.Service
	queue   document.JobQueue
	workers int
}

func NewVerificationWorker(service *documentsrv.Service, queue document.JobQueue, workers int) *VerificationWorker {
	return &VerificationWorker{
		service: service,
		queue:   queue,
		workers: workers,
	}
}

func (w *VerificationWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d verification workers", w.workers)

	// Delayed job mover handles scheduled retries
	go w.moveDelayedJobs(ctx)

	for i := 0; i < w.workers; i++ {
		go w.processJobs(ctx, i)
	}
}

func (w *VerificationWorker) processJobs(ctx context.Context, workerID int) {
	logx.Infof("Worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Worker %d stopping", workerID)
			return
		default:
			// Dequeue with 5 second timeout
			data, err := w.queue.Dequeue(ctx, 5*time.Second)
			if err != nil {
				logx.Errorf("Worker %d dequeue error: %v", workerID, err)
				continue
			}

			// Empty data means the blocking pop timed out with no jobs
			if len(data) == 0 {
				continue
			}

			var job document.VerificationJob
			if err := json.Unmarshal(data, &job); err != nil {
				logx.Errorf("Worker %d unmarshal error: %v (data: %s)", workerID, err, string(data))
				continue
			}

			logx.Infof("Worker %d processing job: %s", workerID, job.ID)
			if err := w.service.ProcessVerificationJob(ctx, &job); err != nil {
				logx.Errorf("Worker %d job failed: %v", workerID, err)
			}
		}
	}
}

func (w *VerificationWorker) moveDelayedJobs(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed jobs: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed jobs to ready queue", count)
			}

			// Keep the queue-depth gauge fresh
			_, _ = w.queue.GetQueueSize(ctx)
		}
	}
}
