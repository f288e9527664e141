package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1234, "1.2K"},
		{999_999, "1000.0K"},
		{1_000_000, "1.0M"},
		{2_560_000, "2.6M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCompact(tt.in), "FormatCompact(%v)", tt.in)
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "1.50 BNB", FormatCurrency(1.5))
	assert.Equal(t, "0.0123 BNB", FormatCurrency(0.0123))
	assert.Equal(t, "-0.5000 BNB", FormatCurrency(-0.5))
	assert.Equal(t, "+2.00 BNB", FormatSignedCurrency(2))
	assert.Equal(t, "-3.00 BNB", FormatSignedCurrency(-3))
}

func TestFormatMisc(t *testing.T) {
	assert.Equal(t, "87.5%", FormatPercent(87.5))
	assert.Equal(t, "5.25 gwei", FormatGwei(5.25))
	assert.Equal(t, "850ms", FormatDuration(850))
	assert.Equal(t, "1.2s", FormatDuration(1200))
	assert.Equal(t, "0x1234…cdef", ShortAddress("0x1234567890abcdef"))
	assert.Equal(t, "0xabc", ShortAddress("0xabc"))
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 minutes ago", FormatAgo(now.Add(-3*time.Minute), now))
	assert.Equal(t, "never", FormatAgo(time.Time{}, now))
}

func TestWalletRows(t *testing.T) {
	perf := []metrics.WalletPerformance{
		{Address: "0xAAA", Transactions: 3, Volume: 2},
		{Address: "0xbbb", Label: "kept", Transactions: 1},
	}
	roster := []metrics.Wallet{
		{Address: "0xaaa", Label: "dev wallet", Role: metrics.RoleDev, BalanceBNB: 4.2},
		{Address: "0xbbb", Label: "ignored", Role: metrics.RoleNumbered},
		{Address: "0xccc", Label: "idle", Role: metrics.RoleFunder, BalanceBNB: 1},
	}

	rows := WalletRows(perf, roster)
	require.Len(t, rows, 3)
	assert.Equal(t, "dev wallet", rows[0].Label)
	assert.Equal(t, metrics.RoleDev, rows[0].Role)
	assert.Equal(t, 4.2, rows[0].BalanceBNB)
	assert.Equal(t, 3, rows[0].Transactions)

	assert.Equal(t, "kept", rows[1].Label)
	assert.Equal(t, metrics.RoleNumbered, rows[1].Role)

	assert.Equal(t, "0xccc", rows[2].Address)
	assert.Equal(t, 0, rows[2].Transactions)

	assert.Empty(t, perf[0].Label, "input not modified")
}

func TestNetworkBadge(t *testing.T) {
	assert.Equal(t, "Disconnected", NetworkBadge(metrics.NetworkStatus{}))
	assert.Equal(t, "Connected · block 42 · 3.00 gwei",
		NetworkBadge(metrics.NetworkStatus{Connected: true, BlockNumber: 42, GasPriceGwei: 3}))
}

func TestMemo(t *testing.T) {
	var m Memo[string, int]
	calls := 0
	compute := func() int { calls++; return calls }

	assert.Equal(t, 1, m.Get("a", compute))
	assert.Equal(t, 1, m.Get("a", compute))
	assert.Equal(t, 2, m.Get("b", compute))
	m.Reset()
	assert.Equal(t, 3, m.Get("b", compute))
	assert.Equal(t, 3, calls)
}
