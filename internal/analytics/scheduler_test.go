package analytics

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerSchedulerEvery(t *testing.T) {
	var n atomic.Int32
	task := TickerScheduler{}.Every(2*time.Millisecond, func() { n.Add(1) })

	require.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)
	task.Cancel()

	// No callback runs once Cancel has returned.
	after := n.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, n.Load())

	task.Cancel()
}

func TestTickerSchedulerAfter(t *testing.T) {
	fired := make(chan struct{}, 1)
	TickerScheduler{}.After(time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("After callback did not run")
	}
}

func TestTickerSchedulerAfterCancelled(t *testing.T) {
	var n atomic.Int32
	task := TickerScheduler{}.After(50*time.Millisecond, func() { n.Add(1) })
	task.Cancel()

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, n.Load())
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseExportFormat("xml")
	assert.Error(t, err)
}

func TestParseCategories(t *testing.T) {
	all, err := ParseCategories("")
	require.NoError(t, err)
	assert.Equal(t, AllCategories(), all)

	some, err := ParseCategories("gas, Wallets")
	require.NoError(t, err)
	assert.Equal(t, []Category{CategoryGas, CategoryWallets}, some)

	_, err = ParseCategories("gas,profit")
	assert.Error(t, err)

	opts := ExportOptions{Metrics: some}
	assert.True(t, opts.Includes(CategoryGas))
	assert.False(t, opts.Includes(CategoryBundles))
	assert.True(t, ExportOptions{}.Includes(CategoryBundles))
}

func TestErrorsUnwrap(t *testing.T) {
	inner := assert.AnError
	assert.ErrorIs(t, &FetchError{Err: inner}, inner)
	assert.ErrorIs(t, &ExportError{Format: FormatCSV, Err: inner}, inner)
	assert.Contains(t, (&ExportError{Format: FormatCSV, Err: inner}).Error(), "export csv")
	assert.Equal(t, "invalid refresh interval 1ms, using 30s",
		(&ConfigError{Field: "refresh interval", Value: time.Millisecond, Fallback: 30 * time.Second}).Error())
}
