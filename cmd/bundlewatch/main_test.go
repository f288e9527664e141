package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

func TestParseExecutions(t *testing.T) {
	single := `{"bundle_type":"buy","transactions":[{"wallet_address":"0xabc","status":"confirmed"}]}`
	execs, err := parseExecutions([]byte(single))
	require.NoError(t, err)
	require.Len(t, execs, 1)
	assert.Equal(t, metrics.BundleBuy, execs[0].Type)
	assert.Equal(t, metrics.TxConfirmed, execs[0].Transactions[0].Status)

	execs, err = parseExecutions([]byte(`[` + single + `,{"bundle_type":"sell"}]`))
	require.NoError(t, err)
	assert.Len(t, execs, 2)

	for _, bad := range []string{`{oops`, `[]`, `"text"`} {
		_, err := parseExecutions([]byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestExportName(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 30, 5, 0, time.UTC)
	assert.Equal(t, "bundlewatch-20260301-123005.csv", exportName(analytics.FormatCSV, false, now))
	assert.Equal(t, "bundlewatch-20260301-123005.json.gz", exportName(analytics.FormatJSON, true, now))
}

func TestWriteExportGzip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, []byte(`{"ok":true}`), true))

	zr, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(got))

	buf.Reset()
	require.NoError(t, writeExport(&buf, []byte("plain"), false))
	assert.Equal(t, "plain", buf.String())
}

func TestPrintSummary(t *testing.T) {
	snap := &metrics.Snapshot{
		Range:       metrics.ResolvePeriod(metrics.Period24h, time.Now()),
		GeneratedAt: time.Now(),
		Bundles:     metrics.BundlePerformance{TotalBundles: 1234, SuccessRate: 95},
		Wallets: metrics.WalletAnalytics{Wallets: []metrics.WalletPerformance{
			{Address: "0xabc", Transactions: 3, Volume: 2},
		}},
		Transactions: metrics.TransactionTracking{Confirmed: 3, Failed: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, snap, []metrics.Wallet{{Address: "0xABC", Label: "dev", Role: metrics.RoleDev}}))
	out := buf.String()
	for _, want := range []string{"Bundles", "1,234", "95.0%", "Network & gas", "Transactions", "Wallets", "dev"} {
		assert.Contains(t, out, want)
	}
}

func TestPrintSummaryNoWallets(t *testing.T) {
	snap := &metrics.Snapshot{Range: metrics.ResolvePeriod(metrics.Period1h, time.Now())}
	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, snap, nil))
	assert.Contains(t, buf.String(), "No wallet activity")
}

// setupConfig writes a config whose storage, logs and preferences live in a
// temp dir.
func setupConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := strings.Join([]string{
		"storage:",
		"  path: " + filepath.Join(dir, "bundlewatch.db"),
		"ui:",
		"  preferences_file: " + filepath.Join(dir, "preferences.yaml"),
		"log_file: " + filepath.Join(dir, "bundlewatch.log"),
		"",
	}, "\n")
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecordSummaryExport(t *testing.T) {
	cfg := setupConfig(t)
	dir := filepath.Dir(cfg)

	input := filepath.Join(dir, "runs.json")
	require.NoError(t, os.WriteFile(input, []byte(`[{
		"bundle_type": "buy",
		"execution_time_ms": 1200,
		"transactions": [
			{"wallet_address": "0x00000000000000000000000000000000000000aa", "status": "confirmed", "amount_bnb": 0.5, "gas_price_gwei": 5},
			{"wallet_address": "0x00000000000000000000000000000000000000bb", "status": "failed", "gas_price_gwei": 5}
		]
	}]`), 0o644))

	out, err := execute(t, "--config", cfg, "record", "--file", input)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 1, "one recorded id")

	out, err = execute(t, "--config", cfg, "summary", "--period", "24h")
	require.NoError(t, err)
	assert.Contains(t, out, "Bundles")
	assert.Contains(t, out, "50.0%")

	target := filepath.Join(dir, "export.csv")
	_, err = execute(t, "--config", cfg, "export", "--format", "csv", "--metrics", "bundles", "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# bundles")
	assert.NotContains(t, string(data), "# wallets")

	_, err = execute(t, "--config", cfg, "prune")
	require.NoError(t, err)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "--config", setupConfig(t), "export", "--format", "xml")
	assert.ErrorContains(t, err, "unknown export format")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "bundlewatch dev\n", out)
}
