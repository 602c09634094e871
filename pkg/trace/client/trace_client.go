package client

import (
	"context"
	"errors"

	"github.com/tracekit/datadog-apm/pkg/trace/buffer"
	"github.com/tracekit/datadog-apm/pkg/trace/encoding"
	"github.com/tracekit/datadog-apm/pkg/trace/model"
	"github.com/tracekit/datadog-apm/pkg/trace/transport"
	"go.uber.org/zap"
)

var ErrServiceRequired = errors.New("config is missing the required service name")

type TraceClient interface {
	// SendTrace enqueues a completed trace for asynchronous delivery without
	// blocking. It returns false when the queue is full and the trace was
	// dropped. Safe for concurrent use.
	SendTrace(trace model.Trace) bool
}

// TraceClientImpl is the producer-facing handle. It holds only the send side
// of the queue; the batch and the endpoint cursor live inside the background
// goroutine and are never reachable from here.
type TraceClientImpl struct {
	queue  chan<- model.Trace
	logger *zap.Logger
	stop   context.CancelFunc
}

// NewTraceClientImpl validates the config, builds the pipeline and starts
// the background delivery loop. There is no shutdown: delivery is best
// effort and process exit discards whatever is still queued.
func NewTraceClientImpl(config Config) (*TraceClientImpl, error) {
	if config.Service == "" {
		return nil, ErrServiceRequired
	}
	config = config.withDefaults()

	queue := make(chan model.Trace, config.BufferQueueCapacity)
	encoder := encoding.NewMsgpackTraceEncoderImpl(config.Service, config.Env)
	endpoints := transport.NewTracesEndpointChain(config.Host, config.Port)
	agentTransport := transport.NewHTTPAgentTransportImpl(
		endpoints,
		encoder,
		config.HTTPClient,
		config.Logger,
	)
	traceBuffer := buffer.NewTraceBufferImpl(
		queue,
		config.BufferSize,
		config.BufferFlushMaxInterval,
		agentTransport,
		config.Logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	traceBuffer.Start(ctx)

	return &TraceClientImpl{
		queue:  queue,
		logger: config.Logger,
		stop:   cancel,
	}, nil
}

func (tc *TraceClientImpl) SendTrace(trace model.Trace) bool {
	select {
	case tc.queue <- trace:
		return true
	default:
		tc.logger.Warn("Trace queue is full, dropping trace", zap.Uint64("trace_id", trace.ID))
		return false
	}
}
