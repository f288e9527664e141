package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/VividCortex/ewma"
)

// Estimates applied when the chain does not report the figure directly.
const (
	FeeRate              = 0.02
	GrossMarginRate      = 0.05
	MEVBlockedRate       = 0.12
	MEVFrontrunRate      = 0.06
	MEVProtectionScore   = 88.5
	gweiToBNB            = 1e-9
	maxExecutionMs       = 3_600_000
	histogramSigFigs     = 3
	congestionMediumGwei = 5.0
	congestionHighGwei   = 10.0
)

// AggregateInput is everything needed to build a snapshot for one range.
type AggregateInput struct {
	Range      TimeRange
	Executions []BundleExecution
	Network    []NetworkStatus
	Now        time.Time
}

// Aggregate builds a Snapshot from the executions and network samples that fall
// inside the range. Inputs are not modified.
func Aggregate(in AggregateInput) *Snapshot {
	var execs []BundleExecution
	for _, e := range in.Executions {
		if in.Range.Contains(e.Timestamp) {
			execs = append(execs, e)
		}
	}
	sort.SliceStable(execs, func(i, j int) bool {
		return execs[i].Timestamp.Before(execs[j].Timestamp)
	})

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	return &Snapshot{
		Range:        in.Range,
		GeneratedAt:  now,
		Bundles:      aggregateBundles(in.Range, execs),
		Wallets:      aggregateWallets(execs),
		Network:      aggregateNetwork(in.Range, in.Network),
		Transactions: aggregateTransactions(execs),
		Gas:          aggregateGas(in.Range, execs),
	}
}

func aggregateBundles(r TimeRange, execs []BundleExecution) BundlePerformance {
	bp := BundlePerformance{TotalBundles: len(execs)}
	bp.MEV.AverageProtectionScore = MEVProtectionScore
	if len(execs) == 0 {
		return bp
	}

	hist := hdrhistogram.New(1, maxExecutionMs, histogramSigFigs)
	var smoothed ewma.SimpleEWMA
	var execTotal float64
	typeCounts := make(map[BundleType]int)
	var txTotal int

	for _, e := range execs {
		txTotal += len(e.Transactions)
		bp.SuccessfulTransactions += e.SuccessCount()
		bp.FailedTransactions += e.FailedCount()
		bp.TotalVolume += e.TotalCostBNB
		execTotal += float64(e.ExecutionTimeMs)
		smoothed.Add(float64(e.ExecutionTimeMs))
		_ = hist.RecordValue(clampMs(e.ExecutionTimeMs))
		typeCounts[e.Type]++
	}

	// Pending transactions count against the rate until they confirm.
	if txTotal > 0 {
		bp.SuccessRate = float64(bp.SuccessfulTransactions) / float64(txTotal) * 100
	}
	bp.AverageExecutionMs = execTotal / float64(len(execs))
	bp.SmoothedExecutionMs = smoothed.Value()
	bp.P95ExecutionMs = float64(hist.ValueAtQuantile(95))
	bp.TotalFees = bp.TotalVolume * FeeRate
	bp.ProfitLoss = bp.TotalVolume*GrossMarginRate - bp.TotalFees
	bp.SuccessRateHistory = successHistory(r, execs)
	bp.TypeDistribution = typeShares(typeCounts, len(execs))
	bp.Stealth = stealthUsage(execs)
	bp.MEV = mevProtection(execs)
	return bp
}

func clampMs(ms int64) int64 {
	if ms < 1 {
		return 1
	}
	if ms > maxExecutionMs {
		return maxExecutionMs
	}
	return ms
}

// successHistory computes the success rate per granularity bucket. Buckets
// without transactions are omitted.
func successHistory(r TimeRange, execs []BundleExecution) []DataPoint {
	buckets := r.Buckets()
	if len(buckets) == 0 {
		return nil
	}
	ok := make([]int, len(buckets))
	total := make([]int, len(buckets))
	for _, e := range execs {
		idx := r.BucketIndex(e.Timestamp)
		if idx < 0 {
			continue
		}
		ok[idx] += e.SuccessCount()
		total[idx] += len(e.Transactions)
	}

	var out []DataPoint
	for i, start := range buckets {
		if total[i] == 0 {
			continue
		}
		out = append(out, NewDataPointAt(start, float64(ok[i])/float64(total[i])*100))
	}
	return out
}

var bundleTypeOrder = []BundleType{BundleBuy, BundleSell, BundleDistribute, BundleVolume}

func typeShares(counts map[BundleType]int, total int) []Share {
	if total == 0 {
		return nil
	}
	seen := make(map[BundleType]bool, len(counts))
	var order []BundleType
	for _, t := range bundleTypeOrder {
		if counts[t] > 0 {
			order = append(order, t)
			seen[t] = true
		}
	}
	var extra []BundleType
	for t, n := range counts {
		if !seen[t] && n > 0 {
			extra = append(extra, t)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	order = append(order, extra...)

	shares := make([]Share, 0, len(order))
	for _, t := range order {
		shares = append(shares, Share{
			Label:      string(t),
			Count:      counts[t],
			Percentage: float64(counts[t]) / float64(total) * 100,
		})
	}
	return shares
}

func stealthUsage(execs []BundleExecution) StealthUsage {
	var su StealthUsage
	var scoreTotal float64
	for _, e := range execs {
		if e.Stealth == nil {
			continue
		}
		su.BundlesWithStealth++
		scoreTotal += e.Stealth.Score
		if e.Stealth.RandomizationApplied {
			su.RandomizationUsage++
		}
		if e.Stealth.MultipleRPCsUsed {
			su.MultiRPCUsage++
		}
	}
	if su.BundlesWithStealth > 0 {
		su.AverageScore = scoreTotal / float64(su.BundlesWithStealth)
	}
	return su
}

func mevProtection(execs []BundleExecution) MEVProtection {
	var mp MEVProtection
	for _, e := range execs {
		if e.MEVProtectionEnabled {
			mp.ProtectedTransactions += len(e.Transactions)
		}
	}
	if mp.ProtectedTransactions > 0 {
		mp.AttacksBlocked = int(float64(mp.ProtectedTransactions) * MEVBlockedRate)
		mp.FrontrunAttemptsDetected = int(float64(mp.ProtectedTransactions) * MEVFrontrunRate)
	}
	mp.AverageProtectionScore = MEVProtectionScore
	return mp
}

func aggregateWallets(execs []BundleExecution) WalletAnalytics {
	byAddr := make(map[string]*WalletPerformance)
	for _, e := range execs {
		for _, tx := range e.Transactions {
			if tx.WalletAddress == "" {
				continue
			}
			w, ok := byAddr[tx.WalletAddress]
			if !ok {
				w = &WalletPerformance{Address: tx.WalletAddress}
				byAddr[tx.WalletAddress] = w
			}
			w.Transactions++
			if tx.Status == TxConfirmed {
				w.Successful++
			}
			w.Volume += tx.AmountBNB
			w.GasSpentBNB += float64(tx.GasUsed) * tx.GasPriceGwei * gweiToBNB
			if e.Timestamp.After(w.LastActive) {
				w.LastActive = e.Timestamp
			}
		}
	}

	wa := WalletAnalytics{Wallets: make([]WalletPerformance, 0, len(byAddr))}
	for _, w := range byAddr {
		w.SuccessRate = float64(w.Successful) / float64(w.Transactions) * 100
		wa.Wallets = append(wa.Wallets, *w)
	}
	sort.Slice(wa.Wallets, func(i, j int) bool {
		return wa.Wallets[i].Address < wa.Wallets[j].Address
	})
	wa.ActiveCount = len(wa.Wallets)

	var best *WalletPerformance
	for i := range wa.Wallets {
		w := &wa.Wallets[i]
		if best == nil || w.SuccessRate > best.SuccessRate ||
			(w.SuccessRate == best.SuccessRate && w.Volume > best.Volume) {
			best = w
		}
	}
	if best != nil {
		wa.TopPerformer = best.Address
	}
	return wa
}

func aggregateNetwork(r TimeRange, samples []NetworkStatus) NetworkStats {
	var ns NetworkStats
	var total float64
	var latest NetworkStatus
	for _, s := range samples {
		if !r.Contains(s.ObservedAt) {
			continue
		}
		if !s.ObservedAt.Before(latest.ObservedAt) {
			latest = s
		}
		// disconnected samples carry no price
		if dp := NewDataPointAt(s.ObservedAt, s.GasPriceGwei); s.Connected && dp.IsValid() {
			ns.GasPriceHistory = append(ns.GasPriceHistory, dp)
			total += s.GasPriceGwei
		}
	}
	ns.NetworkStatus = latest
	if n := len(ns.GasPriceHistory); n > 0 {
		ns.AverageGasGwei = total / float64(n)
	}
	ns.Congestion = ClassifyCongestion(latest.GasPriceGwei)
	return ns
}

// ClassifyCongestion maps a gas price in gwei to a congestion level.
func ClassifyCongestion(gasGwei float64) Congestion {
	switch {
	case gasGwei >= congestionHighGwei:
		return CongestionHigh
	case gasGwei >= congestionMediumGwei:
		return CongestionMedium
	default:
		return CongestionLow
	}
}

func aggregateTransactions(execs []BundleExecution) TransactionTracking {
	var tt TransactionTracking
	for _, e := range execs {
		for i, tx := range e.Transactions {
			id := tx.ID
			if id == "" {
				id = fmt.Sprintf("%s-%d", e.ID, i)
			}
			tt.Records = append(tt.Records, TransactionRecord{
				ID:              id,
				BundleID:        e.ID,
				BundleType:      e.Type,
				Wallet:          tx.WalletAddress,
				TxHash:          tx.TxHash,
				Status:          tx.Status,
				AmountBNB:       tx.AmountBNB,
				GasUsed:         tx.GasUsed,
				GasPriceGwei:    tx.GasPriceGwei,
				ExecutionTimeMs: tx.ExecutionTimeMs,
				Timestamp:       e.Timestamp,
				Error:           tx.Error,
			})
			switch tx.Status {
			case TxPending:
				tt.Pending++
			case TxConfirmed:
				tt.Confirmed++
			case TxFailed:
				tt.Failed++
			}
		}
	}
	return tt
}

func aggregateGas(r TimeRange, execs []BundleExecution) GasAnalytics {
	var ga GasAnalytics
	buckets := r.Buckets()
	estSum := make([]float64, len(buckets))
	actSum := make([]float64, len(buckets))
	counts := make([]int, len(buckets))

	var estTotal, actTotal float64
	var n int
	for _, e := range execs {
		idx := r.BucketIndex(e.Timestamp)
		for _, tx := range e.Transactions {
			if tx.GasPriceGwei <= 0 {
				continue
			}
			est := tx.EstimatedGasGwei
			if est <= 0 {
				est = tx.GasPriceGwei
			}
			ga.TotalGasCostBNB += float64(tx.GasUsed) * tx.GasPriceGwei * gweiToBNB
			if saved := (est - tx.GasPriceGwei) * float64(tx.GasUsed) * gweiToBNB; saved > 0 {
				ga.SavingsBNB += saved
			}
			estTotal += est
			actTotal += tx.GasPriceGwei
			n++
			if idx >= 0 {
				estSum[idx] += est
				actSum[idx] += tx.GasPriceGwei
				counts[idx]++
			}
		}
	}

	for i, start := range buckets {
		if counts[i] == 0 {
			continue
		}
		c := float64(counts[i])
		ga.Samples = append(ga.Samples, GasSample{
			Timestamp: start,
			Estimated: estSum[i] / c,
			Actual:    actSum[i] / c,
		})
	}
	if n > 0 {
		ga.AverageGasGwei = actTotal / float64(n)
		ga.EfficiencyPercent = estTotal / actTotal * 100
		if ga.EfficiencyPercent > 100 {
			ga.EfficiencyPercent = 100
		}
	}
	return ga
}
