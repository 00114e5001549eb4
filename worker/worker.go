// Package worker fans advisor response chunks from Kafka out to the SSE
// streams. Jobs are partitioned so chunks for one conversation keep their
// order; the pool keeps simple throughput metrics for /internal/metrics.
package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"spendsense/api/logger"
	"spendsense/api/models"
	"spendsense/api/sse"

	"go.uber.org/zap"
)

type Pool struct {
	workers    int
	partitions []chan []byte
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	mu                 sync.RWMutex
	messagesProcessed  uint64
	processingDuration uint64
	bufferFillLevels   []uint64
	messagesDropped    uint64
}

func NewPool(workers int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	partitions := make([]chan []byte, workers)
	for i := range partitions {
		partitions[i] = make(chan []byte, 100)
	}
	return &Pool{
		workers:          workers,
		partitions:       partitions,
		ctx:              ctx,
		cancelFunc:       cancel,
		bufferFillLevels: make([]uint64, workers),
	}
}

func (p *Pool) Start() {
	logger.Get().Info("starting worker pool", zap.Int("workers", p.workers))
	for i := range p.partitions {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop cancels the pool context and waits for the workers to drain. The
// partition channels are never closed, so a straggling Submit racing the
// shutdown drops its job instead of panicking.
func (p *Pool) Stop() {
	logger.Get().Info("stopping worker pool")
	p.cancelFunc()
	p.wg.Wait()
}

// Submit routes the job to a partition. Kafka partition numbers may exceed
// the worker count, so they are folded onto the pool. After Stop the job is
// counted as dropped.
func (p *Pool) Submit(job []byte, partition int32) {
	idx := int(partition) % len(p.partitions)
	if idx < 0 {
		idx += len(p.partitions)
	}

	if p.ctx.Err() != nil {
		p.mu.Lock()
		p.messagesDropped++
		p.mu.Unlock()
		logger.Get().Warn("worker pool is stopped, job not submitted")
		return
	}

	select {
	case p.partitions[idx] <- job:
		p.mu.Lock()
		p.bufferFillLevels[idx]++
		p.mu.Unlock()
		logger.Get().Debug("job submitted",
			zap.Int("partition", idx))
	case <-p.ctx.Done():
		p.mu.Lock()
		p.messagesDropped++
		p.mu.Unlock()
		logger.Get().Warn("worker pool is stopped, job not submitted")
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	logger.Get().Info("worker started", zap.Int("worker_id", id))

	for {
		select {
		case job := <-p.partitions[id]:
			p.mu.Lock()
			p.bufferFillLevels[id]--
			p.mu.Unlock()

			startTime := time.Now()

			var aiResponse models.AIResponse
			if err := json.Unmarshal(job, &aiResponse); err != nil {
				p.mu.Lock()
				p.messagesDropped++
				p.mu.Unlock()
				logger.Get().Error("failed to unmarshal advisor response",
					zap.Int("worker_id", id),
					zap.Error(err))
				continue
			}

			sse.SendChunkToClient(aiResponse.ConversationID, string(job))

			p.mu.Lock()
			p.messagesProcessed++
			p.processingDuration += uint64(time.Since(startTime).Milliseconds())
			p.mu.Unlock()

		case <-p.ctx.Done():
			logger.Get().Info("worker stopping due to context cancellation",
				zap.Int("worker_id", id))
			return
		}
	}
}

// MetricsHandler returns the current metrics as JSON
func (p *Pool) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var avgProcessingTime float64
	if p.messagesProcessed > 0 {
		avgProcessingTime = float64(p.processingDuration) / float64(p.messagesProcessed)
	}

	metrics := map[string]any{
		"messages_processed": p.messagesProcessed,
		"messages_dropped":   p.messagesDropped,
		"avg_processing_ms":  avgProcessingTime,
		"buffer_levels":      p.bufferFillLevels,
		"active_workers":     p.workers,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}
