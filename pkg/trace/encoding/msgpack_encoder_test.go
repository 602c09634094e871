package encoding

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracekit/datadog-apm/pkg/trace/model"
	"github.com/vmihailenco/msgpack/v5"
)

func TestMsgpackTraceEncoderImpl_Encode(t *testing.T) {
	t.Run("Round trips to the raw span projection", func(t *testing.T) {
		encoder := NewMsgpackTraceEncoderImpl("service_name", "staging")
		traces := []model.Trace{
			aTrace(1, 2),
			aTrace(3, 1),
			aTrace(7, 1),
		}

		payload, err := encoder.Encode(traces)
		require.Nil(t, err)

		dec := msgpack.NewDecoder(bytes.NewReader(payload))
		outerLen, err := dec.DecodeArrayLen()
		require.Nil(t, err)
		assert.Equal(t, len(traces), outerLen)

		for _, trace := range traces {
			expected := model.NewRawSpans(trace, "service_name", "staging")
			innerLen, err := dec.DecodeArrayLen()
			require.Nil(t, err)
			assert.Equal(t, len(expected), innerLen)
			for _, expectedSpan := range expected {
				var decodedSpan model.RawSpan
				err := dec.Decode(&decodedSpan)
				require.Nil(t, err)
				assert.Equal(t, expectedSpan, decodedSpan)
			}
		}
	})

	t.Run("Every record carries all twelve wire keys", func(t *testing.T) {
		encoder := NewMsgpackTraceEncoderImpl("service_name", "")
		payload, err := encoder.Encode([]model.Trace{aTrace(1, 1)})
		require.Nil(t, err)

		dec := msgpack.NewDecoder(bytes.NewReader(payload))
		_, err = dec.DecodeArrayLen()
		require.Nil(t, err)
		_, err = dec.DecodeArrayLen()
		require.Nil(t, err)

		var record map[string]interface{}
		err = dec.Decode(&record)
		require.Nil(t, err)
		for _, key := range []string{
			"service", "name", "resource", "trace_id", "span_id", "parent_id",
			"start", "duration", "error", "meta", "metrics", "type",
		} {
			assert.Contains(t, record, key)
		}
		// a root span still has the parent_id key, holding nil
		assert.Nil(t, record["parent_id"])
	})

	t.Run("Encodes an empty batch as an empty outer array", func(t *testing.T) {
		encoder := NewMsgpackTraceEncoderImpl("service_name", "")
		payload, err := encoder.Encode(nil)
		require.Nil(t, err)

		dec := msgpack.NewDecoder(bytes.NewReader(payload))
		outerLen, err := dec.DecodeArrayLen()
		require.Nil(t, err)
		assert.Equal(t, 0, outerLen)
	})
}

func aTrace(id uint64, spanCount int) model.Trace {
	spans := make([]model.Span, 0, spanCount)
	for i := 0; i < spanCount; i++ {
		spans = append(spans, model.Span{
			ID:       id*100 + uint64(i),
			Name:     "request",
			Resource: "/home/v3",
			Type:     "web",
			Start:    time.Unix(1700000000, 0),
			Duration: 2 * time.Second,
			HTTP: &model.HttpInfo{
				URL:        "/home/v3/2?trace=true",
				Method:     "GET",
				StatusCode: "200",
			},
			Tags: map[string]string{"team": "payments"},
		})
	}
	return model.Trace{ID: id, Priority: 1, Spans: spans}
}
