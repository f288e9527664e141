package views

import (
	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/transform"
)

// TableState is the UI side of one table: sort, page and cursor.
type TableState struct {
	Sort     transform.Sort
	Page     int
	PageSize int
	Cursor   int
}

func (s TableState) query(filters map[string]string) transform.Query {
	return transform.Query{Filters: filters, Sort: s.Sort, Page: s.Page, PageSize: s.PageSize}
}

type viewKey struct {
	snap   *metrics.Snapshot
	roster int
	query  string
}

// Tables holds the transaction and wallet tables with memoized views. Views
// are recomputed only when the snapshot, roster or query changes.
type Tables struct {
	Transactions TableState
	Wallets      TableState

	txMemo     transform.Memo[viewKey, transform.View[metrics.TransactionRecord]]
	walletMemo transform.Memo[viewKey, transform.View[metrics.WalletPerformance]]
}

// NewTables starts both tables on page one with their default sort.
func NewTables(pageSize int) *Tables {
	if pageSize <= 0 {
		pageSize = transform.DefaultPageSize
	}
	return &Tables{
		Transactions: TableState{Sort: transform.DefaultTransactionSort, Page: 1, PageSize: pageSize},
		Wallets:      TableState{Sort: transform.DefaultWalletSort, Page: 1, PageSize: pageSize},
	}
}

// TransactionView derives the visible transaction page.
func (t *Tables) TransactionView(c Context) transform.View[metrics.TransactionRecord] {
	q := t.Transactions.query(c.State.Filters)
	key := viewKey{snap: c.State.Snapshot, query: q.Key()}
	return t.txMemo.Get(key, func() transform.View[metrics.TransactionRecord] {
		var records []metrics.TransactionRecord
		if c.State.Snapshot != nil {
			records = c.State.Snapshot.Transactions.Records
		}
		return transform.TransactionTable.Derive(records, q)
	})
}

// WalletView derives the visible wallet page, joining the roster.
func (t *Tables) WalletView(c Context) transform.View[metrics.WalletPerformance] {
	q := t.Wallets.query(c.State.Filters)
	key := viewKey{snap: c.State.Snapshot, roster: c.RosterVersion, query: q.Key()}
	return t.walletMemo.Get(key, func() transform.View[metrics.WalletPerformance] {
		var perf []metrics.WalletPerformance
		if c.State.Snapshot != nil {
			perf = c.State.Snapshot.Wallets.Wallets
		}
		return transform.WalletTable.Derive(transform.WalletRows(perf, c.Roster), q)
	})
}

// Active returns the table shown by the given view, or nil.
func (t *Tables) Active(mode analytics.ViewMode) *TableState {
	switch mode {
	case analytics.ViewTransactions:
		return &t.Transactions
	case analytics.ViewWallets:
		return &t.Wallets
	default:
		return nil
	}
}

// NextSort advances s to the next column of names, starting descending.
// Choosing a new column resets to page one.
func NextSort(s *TableState, names []string) {
	if len(names) == 0 {
		return
	}
	next := names[0]
	for i, n := range names {
		if n == s.Sort.Field {
			next = names[(i+1)%len(names)]
			break
		}
	}
	s.Sort = transform.Sort{Field: next, Direction: transform.Desc}
	s.Page = 1
	s.Cursor = 0
}

// ToggleDirection flips the sort direction.
func ToggleDirection(s *TableState) {
	s.Sort.Direction = s.Sort.Direction.Toggle()
	s.Cursor = 0
}

// MovePage changes page by delta, clamped to pageCount.
func MovePage(s *TableState, delta, pageCount int) {
	s.Page = transform.ClampPage(s.Page+delta, pageCount)
	s.Cursor = 0
}

// MoveCursor moves the row cursor within rows visible rows.
func MoveCursor(s *TableState, delta, rows int) {
	if rows <= 0 {
		s.Cursor = 0
		return
	}
	s.Cursor = max(0, min(s.Cursor+delta, rows-1))
}

// ColumnNames lists the column names of a table.
func ColumnNames[T any](t transform.Table[T]) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NextFilterValue cycles value through "all" followed by values.
func NextFilterValue(current string, values []string) string {
	options := append([]string{transform.FilterAll}, values...)
	if current == "" {
		current = transform.FilterAll
	}
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return transform.FilterAll
}
