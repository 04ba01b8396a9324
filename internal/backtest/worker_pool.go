package backtest

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/config"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// WorkerPool manages parallel simulation runs against a shared, read-only series
type WorkerPool struct {
	workerCount int
	jobQueue    chan SweepJob
	resultQueue chan SweepResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// SweepJob is one parameter combination to simulate
type SweepJob struct {
	ID     int
	Config *config.SimConfig
	Series *types.PriceSeries
}

// SweepResult holds both strategy results for one parameter combination
type SweepResult struct {
	ID       int
	Config   *config.SimConfig
	DCA      *Result
	Hybrid   *Result
	Duration time.Duration
	Error    error
}

// CAGRSpread is Hybrid CAGR minus DCA CAGR, NaN if either is undefined
func (r SweepResult) CAGRSpread() float64 {
	if r.DCA == nil || r.Hybrid == nil {
		return math.NaN()
	}
	return r.Hybrid.CAGR - r.DCA.CAGR
}

// NewWorkerPool creates a new worker pool bound to ctx
func NewWorkerPool(ctx context.Context, workerCount int, jobBufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan SweepJob, jobBufferSize),
		resultQueue: make(chan SweepResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the worker pool
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop closes the job queue, waits for workers and closes the result queue
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// SubmitJob submits a job to the pool
func (wp *WorkerPool) SubmitJob(job SweepJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// GetResults returns the result channel for collecting completed jobs
func (wp *WorkerPool) GetResults() <-chan SweepResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := processJob(job)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

func processJob(job SweepJob) SweepResult {
	startTime := time.Now()
	result := SweepResult{ID: job.ID, Config: job.Config}

	engine, err := NewEngine(job.Config, job.Series)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		return result
	}

	result.DCA, result.Hybrid = engine.RunAll()
	result.Duration = time.Since(startTime)
	return result
}

// BatchProcessor runs a parameter sweep through a worker pool
type BatchProcessor struct {
	workerCount   int
	jobBufferSize int
	onProgress    func(done, total int)
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(workerCount, jobBufferSize int) *BatchProcessor {
	return &BatchProcessor{workerCount: workerCount, jobBufferSize: jobBufferSize}
}

// OnProgress registers a callback invoked after each completed job
func (bp *BatchProcessor) OnProgress(fn func(done, total int)) *BatchProcessor {
	bp.onProgress = fn
	return bp
}

// ProcessBatch simulates every configuration against series and returns the
// results ordered by configuration index. It stops early when ctx is done.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, series *types.PriceSeries, configs []*config.SimConfig) ([]SweepResult, error) {
	pool := NewWorkerPool(ctx, bp.workerCount, bp.jobBufferSize)
	pool.Start()

	go func() {
		defer pool.Stop()
		for i, cfg := range configs {
			if err := pool.SubmitJob(SweepJob{ID: i, Config: cfg, Series: series}); err != nil {
				return
			}
		}
	}()

	tracker := NewProgressTracker(len(configs))
	results := make([]SweepResult, 0, len(configs))
	for result := range pool.GetResults() {
		results = append(results, result)
		tracker.Increment()
		if bp.onProgress != nil {
			done, total, _, _ := tracker.GetProgress()
			bp.onProgress(done, total)
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	if err := ctx.Err(); err != nil && len(results) < len(configs) {
		return results, err
	}
	return results, nil
}

// ProgressTracker tracks the progress of batch processing
type ProgressTracker struct {
	total     int
	completed int
	startTime time.Time
	mutex     sync.RWMutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

// Increment increments the completion count
func (pt *ProgressTracker) Increment() {
	pt.mutex.Lock()
	defer pt.mutex.Unlock()
	pt.completed++
}

// GetProgress returns completed, total, percent complete and elapsed time
func (pt *ProgressTracker) GetProgress() (int, int, float64, time.Duration) {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	elapsed := time.Since(pt.startTime)
	progress := 0.0
	if pt.total > 0 {
		progress = float64(pt.completed) / float64(pt.total) * 100
	}

	return pt.completed, pt.total, progress, elapsed
}

// EstimateTimeRemaining estimates the remaining time based on current progress
func (pt *ProgressTracker) EstimateTimeRemaining() time.Duration {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	if pt.completed == 0 {
		return 0
	}

	elapsed := time.Since(pt.startTime)
	avgTimePerItem := elapsed / time.Duration(pt.completed)
	remaining := pt.total - pt.completed

	return avgTimePerItem * time.Duration(remaining)
}
