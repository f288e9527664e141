package transform

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FilterAll is the filter value that matches every record.
const FilterAll = "all"

// DefaultPageSize is used when a query leaves PageSize unset.
const DefaultPageSize = 10

// SortDirection orders a table column.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == Asc {
		return Desc
	}
	return Asc
}

// ColumnKind selects how a column's values compare.
type ColumnKind int

const (
	KindString ColumnKind = iota
	KindNumber
	KindDate
)

// Column extracts one sortable field from a record. Only the accessor matching
// Kind is consulted.
type Column[T any] struct {
	Name   string
	Kind   ColumnKind
	Text   func(T) string
	Number func(T) float64
	Date   func(T) time.Time
}

func (c Column[T]) compare(a, b T) int {
	switch c.Kind {
	case KindNumber:
		return cmp.Compare(c.Number(a), c.Number(b))
	case KindDate:
		return cmp.Compare(c.Date(a).UnixMilli(), c.Date(b).UnixMilli())
	default:
		return strings.Compare(c.Text(a), c.Text(b))
	}
}

// Filter matches records whose field equals a selected value.
type Filter[T any] struct {
	Name  string
	Field func(T) string
}

// Sort names a column and direction.
type Sort struct {
	Field     string
	Direction SortDirection
}

// Query holds the UI parameters a view is derived from. Filters maps a filter
// name to its selected value; unset or "all" matches everything.
type Query struct {
	Filters  map[string]string
	Sort     Sort
	Page     int
	PageSize int
}

// Key returns a stable string identity for memoization.
func (q Query) Key() string {
	var b strings.Builder
	names := make([]string, 0, len(q.Filters))
	for name := range q.Filters {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(q.Filters[name])
		b.WriteByte(';')
	}
	b.WriteString(q.Sort.Field)
	b.WriteByte(':')
	b.WriteString(string(q.Sort.Direction))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(q.PageSize))
	return b.String()
}

// Table binds the columns and filters available for one record type.
type Table[T any] struct {
	Columns []Column[T]
	Filters []Filter[T]
}

// Column returns the named column.
func (t Table[T]) Column(name string) (Column[T], bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column[T]{}, false
}

// View is a filtered, sorted page of records. It is recomputed per query and
// never persisted.
type View[T any] struct {
	Records   []T
	Total     int // records before filtering
	Filtered  int // records after filtering
	Page      int
	PageSize  int
	PageCount int
	Sort      Sort
}

// Filter keeps records matching every active predicate. Input order is kept.
func (t Table[T]) Filter(records []T, selected map[string]string) []T {
	active := make([]Filter[T], 0, len(t.Filters))
	values := make([]string, 0, len(t.Filters))
	for _, f := range t.Filters {
		v := selected[f.Name]
		if v == "" || v == FilterAll {
			continue
		}
		active = append(active, f)
		values = append(values, v)
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		keep := true
		for i, f := range active {
			if f.Field(r) != values[i] {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a sorted copy. Equal keys keep their input order; an unknown
// field leaves the order unchanged.
func (t Table[T]) Sort(records []T, s Sort) []T {
	out := slices.Clone(records)
	col, ok := t.Column(s.Field)
	if !ok {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		c := col.compare(a, b)
		if s.Direction == Desc {
			return -c
		}
		return c
	})
	return out
}

// Derive applies filter, sort and pagination in that order. The input slice is
// not modified.
func (t Table[T]) Derive(records []T, q Query) View[T] {
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	sorted := t.Sort(t.Filter(records, q.Filters), q.Sort)
	return View[T]{
		Records:   Paginate(sorted, page, size),
		Total:     len(records),
		Filtered:  len(sorted),
		Page:      page,
		PageSize:  size,
		PageCount: PageCount(len(sorted), size),
		Sort:      q.Sort,
	}
}

// Paginate returns records[(page-1)*size : page*size]. Pages past the end are
// empty.
func Paginate[T any](records []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(records) {
		return []T{}
	}
	end := min(start+size, len(records))
	return records[start:end:end]
}

// PageCount is ceil(n/size).
func PageCount(n, size int) int {
	if size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage pulls page into [1, pageCount]. An empty table clamps to 1.
func ClampPage(page, pageCount int) int {
	if pageCount < 1 {
		return 1
	}
	return max(1, min(page, pageCount))
}

// DistinctValues lists the values a filter can take over records, sorted, for
// building filter menus.
func (t Table[T]) DistinctValues(records []T, filter string) []string {
	var field func(T) string
	for _, f := range t.Filters {
		if f.Name == filter {
			field = f.Field
			break
		}
	}
	if field == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[field(r)] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}
