package transform

import (
	"fmt"
	"strings"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// WalletRows joins performance rows with the wallet roster. Roster label, role
// and balance fill in what the snapshot lacks; roster wallets without activity
// are appended with zero counts. The inputs are not modified.
func WalletRows(perf []metrics.WalletPerformance, roster []metrics.Wallet) []metrics.WalletPerformance {
	byAddr := make(map[string]metrics.Wallet, len(roster))
	for _, w := range roster {
		byAddr[strings.ToLower(w.Address)] = w
	}

	rows := make([]metrics.WalletPerformance, 0, len(perf)+len(roster))
	seen := make(map[string]struct{}, len(perf))
	for _, p := range perf {
		key := strings.ToLower(p.Address)
		seen[key] = struct{}{}
		if w, ok := byAddr[key]; ok {
			if p.Label == "" {
				p.Label = w.Label
			}
			if p.Role == "" {
				p.Role = w.Role
			}
			if w.BalanceBNB != 0 {
				p.BalanceBNB = w.BalanceBNB
			}
		}
		rows = append(rows, p)
	}

	for _, w := range roster {
		if _, ok := seen[strings.ToLower(w.Address)]; ok {
			continue
		}
		rows = append(rows, metrics.WalletPerformance{
			Address:    w.Address,
			Label:      w.Label,
			Role:       w.Role,
			BalanceBNB: w.BalanceBNB,
		})
	}
	return rows
}

// NetworkBadge is the one-line connectivity summary shown in headers.
func NetworkBadge(s metrics.NetworkStatus) string {
	if !s.Connected {
		return "Disconnected"
	}
	return fmt.Sprintf("Connected · block %d · %s", s.BlockNumber, FormatGwei(s.GasPriceGwei))
}
