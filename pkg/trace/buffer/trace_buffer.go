package buffer

import (
	"context"
	"time"

	"github.com/tracekit/datadog-apm/pkg/trace/model"
	"github.com/tracekit/datadog-apm/pkg/trace/transport"
	"go.uber.org/zap"
)

// TraceBufferImpl drains the ingestion queue from a single background
// goroutine and accumulates traces until a flush trigger fires: the batch
// reaching batchSize, or flushInterval elapsing since the last flush with a
// non-empty batch. The batch slice and the transport's endpoint state are
// owned exclusively by that goroutine.
type TraceBufferImpl struct {
	queue         <-chan model.Trace
	batchSize     int
	flushInterval time.Duration
	transport     transport.AgentTransport
	logger        *zap.Logger
}

func NewTraceBufferImpl(
	queue <-chan model.Trace,
	batchSize int,
	flushInterval time.Duration,
	agentTransport transport.AgentTransport,
	logger *zap.Logger,
) *TraceBufferImpl {
	return &TraceBufferImpl{
		queue:         queue,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		transport:     agentTransport,
		logger:        logger,
	}
}

// Start launches the background loop. It runs until ctx is cancelled;
// anything still buffered or queued at that point is discarded.
func (tb *TraceBufferImpl) Start(ctx context.Context) {
	go tb.run(ctx)
}

func (tb *TraceBufferImpl) run(ctx context.Context) {
	batch := make([]model.Trace, 0, tb.batchSize)
	timer := time.NewTimer(tb.flushInterval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case trace := <-tb.queue:
			batch = append(batch, trace)
			if len(batch) >= tb.batchSize {
				batch = tb.flush(ctx, batch, timer)
			}
		case <-timer.C:
			if len(batch) > 0 {
				batch = tb.flush(ctx, batch, timer)
			} else {
				timer.Reset(tb.flushInterval)
			}
		}
	}
}

// flush hands the whole batch to the transport, then clears it and re-arms
// the flush timer no matter the outcome. A batch is never split or retried
// beyond the transport's own attempt budget.
func (tb *TraceBufferImpl) flush(ctx context.Context, batch []model.Trace, timer *time.Timer) []model.Trace {
	if err := tb.transport.SubmitBatch(ctx, batch); err != nil {
		tb.logger.Error(
			"Failed to deliver trace batch",
			zap.Int("traces", len(batch)),
			zap.Error(err),
		)
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(tb.flushInterval)
	return batch[:0]
}
