package v20test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoAndNudge(t *testing.T) {
	s := NewServer("101-DEMO", "demo")
	defer s.Close()
	s.SeedDemo()

	require.True(t, s.Nudge("EUR_USD", decimal.RequireFromString("0.0005")))
	assert.False(t, s.Nudge("GBP_USD", decimal.NewFromInt(1)))

	s.mu.Lock()
	p := s.prices["EUR_USD"]
	s.mu.Unlock()
	assert.Equal(t, "1.1005", p.Bids[0].Price)
	assert.Equal(t, "1.1007", p.Asks[0].Price)
	assert.Equal(t, p.Bids[0].Price, p.CloseoutBid)
	assert.Len(t, s.instruments, 3)
}

func TestServer_RejectsMissingToken(t *testing.T) {
	s := NewServer("101-DEMO", "demo")
	defer s.Close()

	resp, err := http.Get(s.URL + "/v3/accounts/101-DEMO/instruments")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	r, ok := s.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/v3/accounts/101-DEMO/instruments", r.Path)
}
