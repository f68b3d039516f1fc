package service

//go:generate mockgen -source=cleaner.go -destination=../mock/cleaner_mock.go -package=mock

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/utils"
)

// Cleaner releases blobs that no record references anymore.
//
// Schedule never blocks and never fails: cleanup is best-effort and must not
// change the outcome of the request that triggered it.
type Cleaner interface {
	Schedule(ctx context.Context, reason string, cids ...string)
}

type unpinJob struct {
	cid     string
	reason  string
	traceID string
}

// UnpinQueue is the bounded hand-off between request handlers and the
// UnpinWorker. A full queue drops jobs with a warning.
type UnpinQueue struct {
	jobs   chan unpinJob
	logger *logger.Logger
}

// NewUnpinQueue creates a queue holding at most size pending CIDs.
func NewUnpinQueue(size int, logger *logger.Logger) *UnpinQueue {
	if size <= 0 {
		size = 1
	}
	return &UnpinQueue{jobs: make(chan unpinJob, size), logger: logger}
}

// Schedule implements Cleaner.
func (q *UnpinQueue) Schedule(ctx context.Context, reason string, cids ...string) {
	log := logger.FromContext(ctx)
	traceID, _ := utils.GetTraceIDFromContext(ctx)

	for _, c := range cids {
		select {
		case q.jobs <- unpinJob{cid: c, reason: reason, traceID: traceID}:
			log.Debug().Str("cid", c).Str("reason", reason).Msg("unpin scheduled")
		default:
			log.Warn().Str("cid", c).Str("reason", reason).Msg("unpin queue is full, blob left pinned")
		}
	}
}

// Len returns the number of pending jobs.
func (q *UnpinQueue) Len() int {
	return len(q.jobs)
}

// UnpinWorker drains an UnpinQueue and unpins every CID, retrying transient
// failures with exponential backoff.
type UnpinWorker struct {
	queue *UnpinQueue
	store blobstore.Store

	maxRetries    uint64
	retryInterval time.Duration

	logger *logger.Logger
}

// NewUnpinWorker wires a worker to queue and store using the retry
// settings of cfg.
func NewUnpinWorker(queue *UnpinQueue, store blobstore.Store, cfg config.Workers, logger *logger.Logger) *UnpinWorker {
	var maxRetries uint64
	if cfg.CleanupMaxRetries > 0 {
		maxRetries = uint64(cfg.CleanupMaxRetries)
	}

	return &UnpinWorker{
		queue:         queue,
		store:         store,
		maxRetries:    maxRetries,
		retryInterval: cfg.CleanupRetryInterval,
		logger:        logger,
	}
}

// Run processes jobs until ctx is cancelled. Jobs still queued at that
// point are logged and abandoned.
func (w *UnpinWorker) Run(ctx context.Context) {
	w.logger.Info().Msg("unpin worker started")

	for {
		select {
		case <-ctx.Done():
			if pending := w.queue.Len(); pending > 0 {
				w.logger.Warn().Int("pending", pending).Msg("unpin worker stopped with pending jobs")
			} else {
				w.logger.Info().Msg("unpin worker stopped")
			}
			return
		case job := <-w.queue.jobs:
			w.unpin(ctx, job)
		}
	}
}

func (w *UnpinWorker) unpin(ctx context.Context, job unpinJob) {
	log := w.logger.With().
		Str("cid", job.cid).
		Str("reason", job.reason).
		Str("trace_id", job.traceID).
		Logger()

	operation := func() error {
		err := w.store.Unpin(ctx, job.cid)
		if errors.Is(err, blobstore.ErrInvalidCID) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	if w.retryInterval > 0 {
		policy.InitialInterval = w.retryInterval
	}

	err := backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, w.maxRetries), ctx),
		func(err error, next time.Duration) {
			log.Debug().Err(err).Dur("retry_in", next).Msg("unpin failed, retrying")
		},
	)
	if err != nil {
		log.Error().Err(err).Msg("unpin failed, blob left pinned")
		return
	}

	log.Info().Msg("blob unpinned")
}
