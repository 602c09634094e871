package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	retry "github.com/avast/retry-go"
	"github.com/tracekit/datadog-apm/pkg/trace/encoding"
	"github.com/tracekit/datadog-apm/pkg/trace/model"
	"go.uber.org/zap"
)

// maxSubmitAttempts bounds one flush cycle's POSTs, downgrades included.
const maxSubmitAttempts = 5

type AgentTransport interface {
	// SubmitBatch delivers one batch to the agent, downgrading the protocol
	// version and retrying within a bounded budget. The batch is finished
	// when it returns, whether or not delivery succeeded.
	SubmitBatch(ctx context.Context, traces []model.Trace) error
}

type HTTPAgentTransportImpl struct {
	endpoints  *EndpointChain
	encoder    encoding.TraceEncoder
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPAgentTransportImpl(
	endpoints *EndpointChain,
	encoder encoding.TraceEncoder,
	httpClient *http.Client,
	logger *zap.Logger,
) *HTTPAgentTransportImpl {
	return &HTTPAgentTransportImpl{
		endpoints:  endpoints,
		encoder:    encoder,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (t *HTTPAgentTransportImpl) SubmitBatch(ctx context.Context, traces []model.Trace) error {
	payload, err := t.encoder.Encode(traces)
	if err != nil {
		return fmt.Errorf("error encoding trace batch: %w", err)
	}
	// Fixed zero delay between attempts; the delay policy is an option here
	// so a backoff can be slotted in without touching the submit path.
	err = retry.Do(
		func() error {
			return t.submitOnce(ctx, payload, len(traces))
		},
		retry.Attempts(maxSubmitAttempts),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("error sending %d traces to the agent: %w", len(traces), err)
	}
	return nil
}

// submitOnce performs exactly one POST and classifies the outcome: nil on
// 2xx, a retryable error on network failure or on 404/415 after moving to a
// fallback endpoint, and an unrecoverable error otherwise.
func (t *HTTPAgentTransportImpl) submitOnce(ctx context.Context, payload []byte, traceCount int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoints.Current(), bytes.NewReader(payload))
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("error building agent request: %w", err))
	}
	req.Header.Set("Content-Type", "application/msgpack")
	req.Header.Set("X-Datadog-Trace-Count", strconv.Itoa(traceCount))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Error("Failed to reach the trace agent", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		t.logger.Debug("Traces sent to the agent", zap.Int("traces", traceCount))
		return nil
	}

	if isProtocolRejection(resp.StatusCode) && t.endpoints.HasFallback() {
		previous := t.endpoints.Current()
		t.endpoints.Downgrade()
		t.logger.Info(
			"Trace endpoint rejected the protocol version, switching to fallback",
			zap.String("from", previous),
			zap.String("to", t.endpoints.Current()),
		)
		return fmt.Errorf("agent rejected %s with status %d", previous, resp.StatusCode)
	}

	return retry.Unrecoverable(
		fmt.Errorf("agent returned status %d for %s", resp.StatusCode, t.endpoints.Current()),
	)
}

func isProtocolRejection(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode == http.StatusUnsupportedMediaType
}
