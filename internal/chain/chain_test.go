package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

type fakeRPC struct {
	block    uint64
	gasWei   *big.Int
	balances map[common.Address]*big.Int
	err      error
	closed   bool
}

func (f *fakeRPC) BlockNumber(ctx context.Context) (uint64, error) {
	return f.block, f.err
}

func (f *fakeRPC) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return f.gasWei, f.err
}

func (f *fakeRPC) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.balances[account]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeRPC) Close() { f.closed = true }

var observed = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func TestEthStatus(t *testing.T) {
	rpc := &fakeRPC{block: 123, gasWei: big.NewInt(5_500_000_000)}
	src := &EthStatus{client: rpc, now: func() time.Time { return observed }}

	status, err := src.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, metrics.NetworkStatus{Connected: true, BlockNumber: 123, GasPriceGwei: 5.5, ObservedAt: observed}, status)

	src.Close()
	assert.True(t, rpc.closed)
}

func TestEthStatusDisconnected(t *testing.T) {
	src := &EthStatus{client: &fakeRPC{err: errors.New("connection refused")}, now: func() time.Time { return observed }}

	status, err := src.Status(context.Background())
	require.Error(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, observed, status.ObservedAt)
}

func TestBalance(t *testing.T) {
	addr := "0x00000000000000000000000000000000000000aa"
	oneAndHalf, _ := new(big.Int).SetString("1500000000000000000", 10)
	rpc := &fakeRPC{balances: map[common.Address]*big.Int{common.HexToAddress(addr): oneAndHalf}}
	src := &EthStatus{client: rpc, now: time.Now}

	bal, err := src.Balance(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, 1.5, bal)

	_, err = src.Balance(context.Background(), "not-an-address")
	assert.Error(t, err)
}

func TestConversions(t *testing.T) {
	assert.Equal(t, 0.0, WeiToGwei(nil))
	assert.Equal(t, 3.0, WeiToGwei(big.NewInt(3_000_000_000)))
	assert.Equal(t, 0.0, WeiToNative(nil))
	assert.Equal(t, 0.25, WeiToNative(big.NewInt(250_000_000_000_000_000)))
}

type flakyBalances struct {
	values map[string]float64
	fail   bool
}

func (f *flakyBalances) Balance(ctx context.Context, address string) (float64, error) {
	if f.fail {
		return 0, errors.New("timeout")
	}
	return f.values[address], nil
}

func TestLiveRosterKeepsLastKnownBalance(t *testing.T) {
	base := NewStaticRoster([]metrics.Wallet{
		{Address: "0xA", Label: "dev", Role: metrics.RoleDev},
		{Address: "0xB", Label: "w1", Role: metrics.RoleNumbered, BalanceBNB: 9},
	})
	balances := &flakyBalances{values: map[string]float64{"0xA": 2, "0xB": 3}}
	roster := NewLiveRoster(base, balances)
	ctx := context.Background()

	wallets, err := roster.Wallets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, wallets[0].BalanceBNB)
	assert.Equal(t, 3.0, wallets[1].BalanceBNB)

	balances.fail = true
	wallets, err = roster.Wallets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, wallets[0].BalanceBNB)
	assert.Equal(t, 3.0, wallets[1].BalanceBNB)
}

func TestStaticRosterCopies(t *testing.T) {
	in := []metrics.Wallet{{Address: "0x1"}}
	roster := NewStaticRoster(in)
	in[0].Address = "changed"

	got, err := roster.Wallets(context.Background())
	require.NoError(t, err)
	got[0].Label = "mutated"

	again, _ := roster.Wallets(context.Background())
	assert.Equal(t, "0x1", again[0].Address)
	assert.Empty(t, again[0].Label)
}

func TestOffline(t *testing.T) {
	status, err := Offline{}.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Connected)
}
