package model

const samplingPriorityKey = "_sampling_priority_v1"

// RawSpan is the wire-shaped projection of a Span as the trace agent expects
// it. Every record carries all twelve keys; a root span's parent_id is
// encoded as nil rather than omitted.
type RawSpan struct {
	Service  string             `msgpack:"service"`
	Name     string             `msgpack:"name"`
	Resource string             `msgpack:"resource"`
	TraceID  uint64             `msgpack:"trace_id"`
	SpanID   uint64             `msgpack:"span_id"`
	ParentID *uint64            `msgpack:"parent_id"`
	Start    uint64             `msgpack:"start"`
	Duration uint64             `msgpack:"duration"`
	Error    int32              `msgpack:"error"`
	Meta     map[string]string  `msgpack:"meta"`
	Metrics  map[string]float64 `msgpack:"metrics"`
	Type     string             `msgpack:"type"`
}

// NewRawSpans projects a trace into its wire records. Service and env are
// injected here, at flush time, so the currently configured values are what
// gets recorded rather than whatever was configured when the trace was built.
func NewRawSpans(trace Trace, service string, env string) []RawSpan {
	rawSpans := make([]RawSpan, 0, len(trace.Spans))
	for _, span := range trace.Spans {
		rawSpans = append(rawSpans, RawSpan{
			Service:  service,
			Name:     span.Name,
			Resource: span.Resource,
			TraceID:  trace.ID,
			SpanID:   span.ID,
			ParentID: span.ParentID,
			Start:    uint64(span.Start.UnixNano()),
			Duration: uint64(span.Duration.Nanoseconds()),
			Error:    getErrorFlag(span),
			Meta:     getMeta(span, env),
			Metrics:  getMetrics(trace.Priority),
			Type:     span.Type,
		})
	}
	return rawSpans
}

func getErrorFlag(span Span) int32 {
	if span.Error != nil {
		return 1
	}
	return 0
}

// getMeta flattens the structured info blocks and the caller's tags into the
// meta map. Tags are applied last, so a colliding tag wins over a fixed key.
func getMeta(span Span, env string) map[string]string {
	meta := make(map[string]string)
	if env != "" {
		meta["env"] = env
	}
	if span.HTTP != nil {
		meta["http.url"] = span.HTTP.URL
		meta["http.method"] = span.HTTP.Method
		meta["http.status_code"] = span.HTTP.StatusCode
	}
	if span.Error != nil {
		meta["error.type"] = span.Error.Type
		meta["error.msg"] = span.Error.Msg
		meta["error.stack"] = span.Error.Stack
	}
	if span.SQL != nil {
		meta["sql.query"] = span.SQL.Query
		meta["sql.rows"] = span.SQL.Rows
		meta["sql.db"] = span.SQL.DB
	}
	for key, value := range span.Tags {
		meta[key] = value
	}
	return meta
}

func getMetrics(priority uint32) map[string]float64 {
	return map[string]float64{
		samplingPriorityKey: float64(priority),
	}
}
