package transform

import (
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// Filter names.
const (
	FilterStatus     = "status"
	FilterBundleType = "type"
	FilterRole       = "role"
)

// Transaction column names.
const (
	ColTime      = "time"
	ColBundle    = "bundle"
	ColType      = "type"
	ColWallet    = "wallet"
	ColStatus    = "status"
	ColAmount    = "amount"
	ColGasPrice  = "gas_price"
	ColExecution = "execution_ms"
)

// Wallet column names.
const (
	ColAddress      = "address"
	ColLabel        = "label"
	ColRole         = "role"
	ColTransactions = "transactions"
	ColSuccessRate  = "success_rate"
	ColVolume       = "volume"
	ColGasSpent     = "gas_spent"
	ColBalance      = "balance"
	ColLastActive   = "last_active"
)

// TransactionTable sorts and filters transaction records.
var TransactionTable = Table[metrics.TransactionRecord]{
	Columns: []Column[metrics.TransactionRecord]{
		{Name: ColTime, Kind: KindDate, Date: func(r metrics.TransactionRecord) time.Time { return r.Timestamp }},
		{Name: ColBundle, Kind: KindString, Text: func(r metrics.TransactionRecord) string { return r.BundleID }},
		{Name: ColType, Kind: KindString, Text: func(r metrics.TransactionRecord) string { return string(r.BundleType) }},
		{Name: ColWallet, Kind: KindString, Text: func(r metrics.TransactionRecord) string { return r.Wallet }},
		{Name: ColStatus, Kind: KindString, Text: func(r metrics.TransactionRecord) string { return string(r.Status) }},
		{Name: ColAmount, Kind: KindNumber, Number: func(r metrics.TransactionRecord) float64 { return r.AmountBNB }},
		{Name: ColGasPrice, Kind: KindNumber, Number: func(r metrics.TransactionRecord) float64 { return r.GasPriceGwei }},
		{Name: ColExecution, Kind: KindNumber, Number: func(r metrics.TransactionRecord) float64 { return float64(r.ExecutionTimeMs) }},
	},
	Filters: []Filter[metrics.TransactionRecord]{
		{Name: FilterStatus, Field: func(r metrics.TransactionRecord) string { return string(r.Status) }},
		{Name: FilterBundleType, Field: func(r metrics.TransactionRecord) string { return string(r.BundleType) }},
	},
}

// WalletTable sorts and filters wallet performance rows.
var WalletTable = Table[metrics.WalletPerformance]{
	Columns: []Column[metrics.WalletPerformance]{
		{Name: ColAddress, Kind: KindString, Text: func(w metrics.WalletPerformance) string { return w.Address }},
		{Name: ColLabel, Kind: KindString, Text: func(w metrics.WalletPerformance) string { return w.Label }},
		{Name: ColRole, Kind: KindString, Text: func(w metrics.WalletPerformance) string { return string(w.Role) }},
		{Name: ColTransactions, Kind: KindNumber, Number: func(w metrics.WalletPerformance) float64 { return float64(w.Transactions) }},
		{Name: ColSuccessRate, Kind: KindNumber, Number: func(w metrics.WalletPerformance) float64 { return w.SuccessRate }},
		{Name: ColVolume, Kind: KindNumber, Number: func(w metrics.WalletPerformance) float64 { return w.Volume }},
		{Name: ColGasSpent, Kind: KindNumber, Number: func(w metrics.WalletPerformance) float64 { return w.GasSpentBNB }},
		{Name: ColBalance, Kind: KindNumber, Number: func(w metrics.WalletPerformance) float64 { return w.BalanceBNB }},
		{Name: ColLastActive, Kind: KindDate, Date: func(w metrics.WalletPerformance) time.Time { return w.LastActive }},
	},
	Filters: []Filter[metrics.WalletPerformance]{
		{Name: FilterRole, Field: func(w metrics.WalletPerformance) string { return string(w.Role) }},
	},
}

// DefaultTransactionSort shows the newest transactions first.
var DefaultTransactionSort = Sort{Field: ColTime, Direction: Desc}

// DefaultWalletSort shows the busiest wallets first.
var DefaultWalletSort = Sort{Field: ColVolume, Direction: Desc}
