package flow

import "strings"

// PageSize is the number of entries per page on paged stages.
const PageSize = 12

// Pager slices a listing into fixed-size pages. Pages are numbered from 1.
type Pager struct {
	page  int
	count int
	size  int
}

// NewPager starts on page 1 of count entries.
func NewPager(count, size int) Pager {
	if size <= 0 {
		size = PageSize
	}
	if count < 0 {
		count = 0
	}
	return Pager{page: 1, count: count, size: size}
}

// Page returns the current page number.
func (p Pager) Page() int { return p.page }

// TotalPages is ceil(count/size); 0 for an empty listing.
func (p Pager) TotalPages() int {
	return (p.count + p.size - 1) / p.size
}

func (p Pager) HasNext() bool { return p.page < p.TotalPages() }

func (p Pager) HasPrev() bool { return p.page > 1 }

// Next advances one page. It reports false at the last page.
func (p *Pager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.page++
	return true
}

// Prev goes back one page. It reports false at the first page.
func (p *Pager) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.page--
	return true
}

// Bounds returns the half-open index range of the current page.
func (p Pager) Bounds() (start, end int) {
	start = (p.page - 1) * p.size
	if start > p.count {
		start = p.count
	}
	end = start + p.size
	if end > p.count {
		end = p.count
	}
	return start, end
}

// Listing is a fetched stage listing with a client-side filter and, on paged
// stages, a pager over the filtered entries.
type Listing[T any] struct {
	all     []T
	visible []T
	query   string
	paged   bool
	pager   Pager
	name    func(T) string
}

// NewListing wraps items. name returns the text the filter matches against.
func NewListing[T any](items []T, paged bool, name func(T) string) *Listing[T] {
	l := &Listing[T]{all: items, paged: paged, name: name}
	l.apply()
	return l
}

// SetQuery filters the listing case-insensitively and resets the pager.
func (l *Listing[T]) SetQuery(query string) {
	l.query = strings.TrimSpace(query)
	l.apply()
}

func (l *Listing[T]) Query() string { return l.query }

func (l *Listing[T]) apply() {
	needle := strings.ToLower(l.query)
	l.visible = make([]T, 0, len(l.all))
	for _, item := range l.all {
		if needle == "" || strings.Contains(strings.ToLower(l.name(item)), needle) {
			l.visible = append(l.visible, item)
		}
	}
	size := len(l.visible)
	if l.paged {
		size = PageSize
	}
	l.pager = NewPager(len(l.visible), size)
}

// Len is the number of entries passing the filter.
func (l *Listing[T]) Len() int { return len(l.visible) }

// Total is the number of fetched entries.
func (l *Listing[T]) Total() int { return len(l.all) }

// Items returns the entries of the current page.
func (l *Listing[T]) Items() []T {
	start, end := l.pager.Bounds()
	return l.visible[start:end]
}

func (l *Listing[T]) Pager() Pager { return l.pager }

func (l *Listing[T]) Next() bool { return l.pager.Next() }

func (l *Listing[T]) Prev() bool { return l.pager.Prev() }
