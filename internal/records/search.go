package records

import (
	"sync"
	"time"

	"booking-app/internal/domain/plans"
)

// DefaultDebounce is how long a search waits for typing or record changes
// to settle before filtering.
const DefaultDebounce = 300 * time.Millisecond

// Source is a live list of plans.
type Source interface {
	Plans() []plans.Plan
	Subscribe(fn func([]plans.Plan)) func()
}

// LiveSearch filters a live plan list by a query, recomputing after the
// query or the list has been quiet for the debounce delay.
type LiveSearch struct {
	src      Source
	delay    time.Duration
	onResult func([]plans.Plan)

	mu      sync.Mutex
	query   string
	results []plans.Plan
	timer   *time.Timer
	gen     int
	closed  bool
	unsub   func()
}

// NewLiveSearch computes the initial result immediately. onResult, if set,
// receives every recomputed result.
func NewLiveSearch(src Source, query string, delay time.Duration, onResult func([]plans.Plan)) *LiveSearch {
	l := &LiveSearch{
		src:      src,
		delay:    delay,
		onResult: onResult,
		query:    query,
		results:  plans.Search(src.Plans(), query),
	}
	unsub := src.Subscribe(func([]plans.Plan) { l.schedule() })
	l.mu.Lock()
	l.unsub = unsub
	l.mu.Unlock()
	return l
}

func (l *LiveSearch) SetQuery(q string) {
	l.mu.Lock()
	l.query = q
	l.mu.Unlock()
	l.schedule()
}

func (l *LiveSearch) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

func (l *LiveSearch) Results() []plans.Plan {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]plans.Plan(nil), l.results...)
}

func (l *LiveSearch) schedule() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	l.gen++
	gen := l.gen
	l.timer = time.AfterFunc(l.delay, func() { l.run(gen) })
}

// run drops its result if a newer computation was scheduled meanwhile.
func (l *LiveSearch) run(gen int) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	q := l.query
	l.mu.Unlock()

	res := plans.Search(l.src.Plans(), q)

	l.mu.Lock()
	if l.closed || gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.results = res
	cb := l.onResult
	l.mu.Unlock()

	if cb != nil {
		cb(res)
	}
}

func (l *LiveSearch) Close() {
	l.mu.Lock()
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
	}
	unsub := l.unsub
	l.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
