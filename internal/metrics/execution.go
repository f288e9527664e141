package metrics

import "time"

// BundleType is the kind of bundle that was executed.
type BundleType string

const (
	BundleBuy        BundleType = "buy"
	BundleSell       BundleType = "sell"
	BundleDistribute BundleType = "distribute"
	BundleVolume     BundleType = "volume"
)

// TxStatus is the settlement status of a single transaction.
type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
	TxFailed    TxStatus = "failed"
)

// StealthMetrics describes the stealth techniques applied to a bundle.
type StealthMetrics struct {
	Score                float64 `json:"stealth_score"`
	RandomizationApplied bool    `json:"randomization_applied"`
	MultipleRPCsUsed     bool    `json:"multiple_rpcs_used"`
}

// TransactionResult is one transaction inside an executed bundle.
type TransactionResult struct {
	ID               string   `json:"id"`
	WalletAddress    string   `json:"wallet_address"`
	TxHash           string   `json:"tx_hash,omitempty"`
	Status           TxStatus `json:"status"`
	AmountBNB        float64  `json:"amount_bnb"`
	GasUsed          uint64   `json:"gas_used"`
	GasLimit         uint64   `json:"gas_limit"`
	GasPriceGwei     float64  `json:"gas_price_gwei"`
	EstimatedGasGwei float64  `json:"estimated_gas_gwei"`
	Error            string   `json:"error,omitempty"`
	ExecutionTimeMs  int64    `json:"execution_time_ms"`
}

// BundleExecution is a single recorded bundle run.
type BundleExecution struct {
	ID                   string              `json:"bundle_id"`
	Type                 BundleType          `json:"bundle_type"`
	Timestamp            time.Time           `json:"timestamp"`
	ExecutionTimeMs      int64               `json:"execution_time_ms"`
	TotalCostBNB         float64             `json:"total_cost_bnb"`
	MEVProtectionEnabled bool                `json:"mev_protection_enabled"`
	Stealth              *StealthMetrics     `json:"stealth_metrics,omitempty"`
	Transactions         []TransactionResult `json:"transactions"`
}

// Time satisfies Timestamped.
func (e BundleExecution) Time() time.Time {
	return e.Timestamp
}

// SuccessCount returns the number of confirmed transactions.
func (e BundleExecution) SuccessCount() int {
	n := 0
	for _, tx := range e.Transactions {
		if tx.Status == TxConfirmed {
			n++
		}
	}
	return n
}

// FailedCount returns the number of failed transactions.
func (e BundleExecution) FailedCount() int {
	n := 0
	for _, tx := range e.Transactions {
		if tx.Status == TxFailed {
			n++
		}
	}
	return n
}
