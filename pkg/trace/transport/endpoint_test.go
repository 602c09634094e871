package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointChain(t *testing.T) {
	t.Run("Starts at v0.4 with the full fallback chain", func(t *testing.T) {
		chain := NewTracesEndpointChain("localhost", "8126")
		assert.Equal(t, "http://localhost:8126/v0.4/traces", chain.Current())
		assert.True(t, chain.HasFallback())
	})

	t.Run("Downgrades monotonically and never regresses", func(t *testing.T) {
		chain := NewTracesEndpointChain("localhost", "8126")
		assert.True(t, chain.Downgrade())
		assert.Equal(t, "http://localhost:8126/v0.3/traces", chain.Current())
		assert.True(t, chain.Downgrade())
		assert.Equal(t, "http://localhost:8126/v0.2/traces", chain.Current())
	})

	t.Run("Refuses to downgrade past the oldest version", func(t *testing.T) {
		chain := NewTracesEndpointChain("localhost", "8126")
		assert.True(t, chain.Downgrade())
		assert.True(t, chain.Downgrade())
		assert.False(t, chain.HasFallback())
		assert.False(t, chain.Downgrade())
		assert.Equal(t, "http://localhost:8126/v0.2/traces", chain.Current())
	})
}
