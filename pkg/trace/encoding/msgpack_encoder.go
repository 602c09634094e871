package encoding

import (
	"bytes"
	"fmt"

	"github.com/tracekit/datadog-apm/pkg/trace/model"
	"github.com/vmihailenco/msgpack/v5"
)

type TraceEncoder interface {
	// Encode serializes a batch of traces into the agent's wire payload.
	Encode(traces []model.Trace) ([]byte, error)
}

// MsgpackTraceEncoderImpl encodes a batch as msgpack array-of-arrays of span
// records, the shape the agent's /v0.x/traces endpoints expect.
type MsgpackTraceEncoderImpl struct {
	service string
	env     string
}

func NewMsgpackTraceEncoderImpl(service string, env string) *MsgpackTraceEncoderImpl {
	return &MsgpackTraceEncoderImpl{
		service: service,
		env:     env,
	}
}

// Encode writes the two levels of array framing explicitly (outer length,
// then one inner length per trace) before the map-keyed span records. A
// generic encode of the nested slices would not produce this framing around
// record-typed elements.
func (e *MsgpackTraceEncoderImpl) Encode(traces []model.Trace) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(len(traces)); err != nil {
		return nil, fmt.Errorf("error encoding trace array header: %w", err)
	}
	for _, trace := range traces {
		rawSpans := model.NewRawSpans(trace, e.service, e.env)
		if err := enc.EncodeArrayLen(len(rawSpans)); err != nil {
			return nil, fmt.Errorf("error encoding span array header: %w", err)
		}
		for i := range rawSpans {
			if err := enc.Encode(&rawSpans[i]); err != nil {
				return nil, fmt.Errorf("error encoding span record: %w", err)
			}
		}
	}
	return buf.Bytes(), nil
}
