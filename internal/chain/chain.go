// Package chain provides read-only views of the chain and the wallet roster:
// live network status from an EVM JSON-RPC endpoint and wallet balances.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// NetworkSource reports the current network status.
type NetworkSource interface {
	Status(ctx context.Context) (metrics.NetworkStatus, error)
}

// RosterSource lists the wallets being tracked.
type RosterSource interface {
	Wallets(ctx context.Context) ([]metrics.Wallet, error)
}

// rpcClient is the subset of ethclient.Client used here.
type rpcClient interface {
	BlockNumber(ctx context.Context) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	Close()
}

// EthStatus reads network status and balances over JSON-RPC.
type EthStatus struct {
	client rpcClient
	url    string
	now    func() time.Time
}

// Dial connects to an EVM RPC endpoint.
func Dial(ctx context.Context, url string) (*EthStatus, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %s: %w", url, err)
	}
	return &EthStatus{client: client, url: url, now: time.Now}, nil
}

// Status returns block number and suggested gas price. On failure the returned
// status is marked disconnected.
func (e *EthStatus) Status(ctx context.Context) (metrics.NetworkStatus, error) {
	status := metrics.NetworkStatus{ObservedAt: e.now()}

	block, err := e.client.BlockNumber(ctx)
	if err != nil {
		return status, fmt.Errorf("block number: %w", err)
	}
	price, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return status, fmt.Errorf("gas price: %w", err)
	}

	status.Connected = true
	status.BlockNumber = block
	status.GasPriceGwei = WeiToGwei(price)
	return status, nil
}

// Balance returns an account balance in BNB.
func (e *EthStatus) Balance(ctx context.Context, address string) (float64, error) {
	if !common.IsHexAddress(address) {
		return 0, fmt.Errorf("invalid address %q", address)
	}
	wei, err := e.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return 0, fmt.Errorf("balance of %s: %w", address, err)
	}
	return WeiToNative(wei), nil
}

// Close releases the RPC connection.
func (e *EthStatus) Close() {
	e.client.Close()
}

// WeiToGwei converts wei to gwei.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	return decimal.NewFromBigInt(wei, -9).InexactFloat64()
}

// WeiToNative converts wei to whole coins (18 decimals).
func WeiToNative(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	return decimal.NewFromBigInt(wei, -18).InexactFloat64()
}

// Offline is a NetworkSource used when no RPC endpoint is configured.
type Offline struct{}

func (Offline) Status(ctx context.Context) (metrics.NetworkStatus, error) {
	return metrics.NetworkStatus{ObservedAt: time.Now()}, nil
}

// StaticRoster serves the wallets listed in configuration.
type StaticRoster struct {
	wallets []metrics.Wallet
}

// NewStaticRoster copies wallets.
func NewStaticRoster(wallets []metrics.Wallet) *StaticRoster {
	return &StaticRoster{wallets: append([]metrics.Wallet(nil), wallets...)}
}

func (s *StaticRoster) Wallets(ctx context.Context) ([]metrics.Wallet, error) {
	return append([]metrics.Wallet(nil), s.wallets...), nil
}

// balanceReader is satisfied by *EthStatus.
type balanceReader interface {
	Balance(ctx context.Context, address string) (float64, error)
}

// LiveRoster refreshes roster balances from the chain, keeping the last known
// balance of wallets whose lookup fails.
type LiveRoster struct {
	base     RosterSource
	balances balanceReader

	mu   sync.Mutex
	last map[string]float64
}

// NewLiveRoster wraps base with on-chain balances.
func NewLiveRoster(base RosterSource, balances balanceReader) *LiveRoster {
	return &LiveRoster{base: base, balances: balances, last: map[string]float64{}}
}

func (r *LiveRoster) Wallets(ctx context.Context) ([]metrics.Wallet, error) {
	wallets, err := r.base.Wallets(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, w := range wallets {
		key := strings.ToLower(w.Address)
		bal, err := r.balances.Balance(ctx, w.Address)
		if err != nil {
			logger.Debug("Balance lookup failed", "address", w.Address, "error", err)
			if prev, ok := r.last[key]; ok {
				wallets[i].BalanceBNB = prev
			}
			continue
		}
		r.last[key] = bal
		wallets[i].BalanceBNB = bal
	}
	return wallets, nil
}
