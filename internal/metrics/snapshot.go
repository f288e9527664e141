package metrics

import "time"

// Congestion is a qualitative network load classification.
type Congestion string

const (
	CongestionLow    Congestion = "low"
	CongestionMedium Congestion = "medium"
	CongestionHigh   Congestion = "high"
)

// Snapshot is one immutable aggregate of every metric category for a single
// TimeRange. Consumers must not modify it; a new fetch produces a new Snapshot.
type Snapshot struct {
	Range        TimeRange           `json:"range"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Bundles      BundlePerformance   `json:"bundles"`
	Wallets      WalletAnalytics     `json:"wallets"`
	Network      NetworkStats        `json:"network"`
	Transactions TransactionTracking `json:"transactions"`
	Gas          GasAnalytics        `json:"gas"`
}

// Share is a labelled slice of a whole, used for distribution charts.
type Share struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BundlePerformance summarises bundle execution outcomes.
type BundlePerformance struct {
	TotalBundles           int           `json:"total_bundles"`
	SuccessfulTransactions int           `json:"successful_transactions"`
	FailedTransactions     int           `json:"failed_transactions"`
	SuccessRate            float64       `json:"success_rate"`
	AverageExecutionMs     float64       `json:"average_execution_ms"`
	SmoothedExecutionMs    float64       `json:"smoothed_execution_ms"`
	P95ExecutionMs         float64       `json:"p95_execution_ms"`
	TotalVolume            float64       `json:"total_volume"`
	TotalFees              float64       `json:"total_fees"`
	ProfitLoss             float64       `json:"profit_loss"`
	SuccessRateHistory     []DataPoint   `json:"success_rate_history"`
	TypeDistribution       []Share       `json:"type_distribution"`
	Stealth                StealthUsage  `json:"stealth"`
	MEV                    MEVProtection `json:"mev"`
}

// StealthUsage aggregates stealth technique usage across bundles.
type StealthUsage struct {
	BundlesWithStealth int     `json:"bundles_with_stealth"`
	AverageScore       float64 `json:"average_score"`
	RandomizationUsage int     `json:"randomization_usage"`
	MultiRPCUsage      int     `json:"multi_rpc_usage"`
}

// MEVProtection aggregates MEV protection outcomes.
type MEVProtection struct {
	ProtectedTransactions    int     `json:"protected_transactions"`
	AttacksBlocked           int     `json:"attacks_blocked"`
	AverageProtectionScore   float64 `json:"average_protection_score"`
	FrontrunAttemptsDetected int     `json:"frontrun_attempts_detected"`
}

// WalletRole describes what a wallet is used for.
type WalletRole string

const (
	RoleDev      WalletRole = "dev"
	RoleMEV      WalletRole = "mev"
	RoleFunder   WalletRole = "funder"
	RoleNumbered WalletRole = "numbered"
)

// Wallet is an entry in the wallet roster provided by the connectivity layer.
type Wallet struct {
	Address    string     `json:"address" yaml:"address" mapstructure:"address"`
	Label      string     `json:"label" yaml:"label" mapstructure:"label"`
	Role       WalletRole `json:"role" yaml:"role" mapstructure:"role"`
	BalanceBNB float64    `json:"balance_bnb" yaml:"balance_bnb" mapstructure:"balance_bnb"`
}

// WalletPerformance is the per-wallet row of a snapshot.
type WalletPerformance struct {
	Address      string     `json:"address"`
	Label        string     `json:"label,omitempty"`
	Role         WalletRole `json:"role,omitempty"`
	Transactions int        `json:"transactions"`
	Successful   int        `json:"successful"`
	SuccessRate  float64    `json:"success_rate"`
	Volume       float64    `json:"volume"`
	GasSpentBNB  float64    `json:"gas_spent_bnb"`
	BalanceBNB   float64    `json:"balance_bnb"`
	LastActive   time.Time  `json:"last_active"`
}

// WalletAnalytics holds every wallet that was active in the range.
type WalletAnalytics struct {
	Wallets      []WalletPerformance `json:"wallets"`
	ActiveCount  int                 `json:"active_count"`
	TopPerformer string              `json:"top_performer,omitempty"`
}

// NetworkStatus is the live connectivity view of the chain.
type NetworkStatus struct {
	Connected    bool      `json:"connected"`
	BlockNumber  uint64    `json:"block_number"`
	GasPriceGwei float64   `json:"gas_price_gwei"`
	ObservedAt   time.Time `json:"observed_at"`
}

// Time satisfies Timestamped.
func (s NetworkStatus) Time() time.Time {
	return s.ObservedAt
}

// NetworkStats describes the chain during the range.
type NetworkStats struct {
	NetworkStatus
	Congestion      Congestion  `json:"congestion"`
	AverageGasGwei  float64     `json:"average_gas_gwei"`
	GasPriceHistory []DataPoint `json:"gas_price_history"`
}

// TransactionRecord is a flattened transaction for tables and exports.
type TransactionRecord struct {
	ID              string     `json:"id"`
	BundleID        string     `json:"bundle_id"`
	BundleType      BundleType `json:"bundle_type"`
	Wallet          string     `json:"wallet"`
	TxHash          string     `json:"tx_hash,omitempty"`
	Status          TxStatus   `json:"status"`
	AmountBNB       float64    `json:"amount_bnb"`
	GasUsed         uint64     `json:"gas_used"`
	GasPriceGwei    float64    `json:"gas_price_gwei"`
	ExecutionTimeMs int64      `json:"execution_time_ms"`
	Timestamp       time.Time  `json:"timestamp"`
	Error           string     `json:"error,omitempty"`
}

// TransactionTracking lists transactions in the range with status counts.
type TransactionTracking struct {
	Records   []TransactionRecord `json:"records"`
	Pending   int                 `json:"pending"`
	Confirmed int                 `json:"confirmed"`
	Failed    int                 `json:"failed"`
}

// GasSample pairs estimated and actual gas price for one bucket.
type GasSample struct {
	Timestamp time.Time `json:"timestamp"`
	Estimated float64   `json:"estimated"`
	Actual    float64   `json:"actual"`
}

// GasAnalytics describes gas spending efficiency.
type GasAnalytics struct {
	Samples           []GasSample `json:"samples"`
	AverageGasGwei    float64     `json:"average_gas_gwei"`
	TotalGasCostBNB   float64     `json:"total_gas_cost_bnb"`
	EfficiencyPercent float64     `json:"efficiency_percent"`
	SavingsBNB        float64     `json:"savings_bnb"`
}
