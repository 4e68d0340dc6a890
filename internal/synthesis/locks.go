package synthesis

import "sync"

// tickerLocks serializes merges per ticker inside one process. TryLock
// never blocks: a concurrent merge on the same ticker is rejected, not
// queued, so callers get a fast conflict instead of a stale write.
type tickerLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newTickerLocks() *tickerLocks {
	return &tickerLocks{held: make(map[string]struct{})}
}

func (l *tickerLocks) TryLock(ticker string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[ticker]; busy {
		return false
	}
	l.held[ticker] = struct{}{}
	return true
}

func (l *tickerLocks) Unlock(ticker string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, ticker)
}
