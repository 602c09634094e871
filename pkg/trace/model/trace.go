package model

import "time"

// Trace is one causally-related set of spans sharing an id and a sampling
// priority. It must not be mutated after being handed to the client.
type Trace struct {
	ID       uint64
	Priority uint32
	Spans    []Span
}

// Span is one completed unit of work within a trace. ParentID, when set,
// should reference another span of the same trace; this is not enforced.
type Span struct {
	ID       uint64
	ParentID *uint64
	Name     string
	Resource string
	Type     string // free-form category, e.g. "web" or "db"
	Start    time.Time
	Duration time.Duration
	HTTP     *HttpInfo
	Error    *ErrorInfo
	SQL      *SqlInfo
	Tags     map[string]string
}

type HttpInfo struct {
	URL        string
	Method     string
	StatusCode string // kept as a string for wire flexibility
}

type ErrorInfo struct {
	Type  string
	Msg   string
	Stack string
}

type SqlInfo struct {
	Query string
	Rows  string
	DB    string
}
