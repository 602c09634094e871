package transport

import "fmt"

// Protocol versions the agent may speak, newest first.
var traceEndpointVersions = []string{"v0.4", "v0.3", "v0.2"}

// EndpointChain is the ordered list of candidate submission URLs with a
// cursor marking the version currently in use. The chain is built once and
// the cursor only ever moves forward; it must stay owned by the single
// goroutine driving submissions.
type EndpointChain struct {
	endpoints []string
	cursor    int
}

func NewTracesEndpointChain(host string, port string) *EndpointChain {
	endpoints := make([]string, 0, len(traceEndpointVersions))
	for _, version := range traceEndpointVersions {
		endpoints = append(endpoints, fmt.Sprintf("http://%s:%s/%s/traces", host, port, version))
	}
	return &EndpointChain{endpoints: endpoints}
}

// Current returns the URL of the protocol version currently in use.
func (c *EndpointChain) Current() string {
	return c.endpoints[c.cursor]
}

// HasFallback reports whether an older protocol version remains.
func (c *EndpointChain) HasFallback() bool {
	return c.cursor < len(c.endpoints)-1
}

// Downgrade permanently advances the cursor to the next older version.
// It returns false when the chain is exhausted.
func (c *EndpointChain) Downgrade() bool {
	if !c.HasFallback() {
		return false
	}
	c.cursor++
	return true
}
