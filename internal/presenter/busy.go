package presenter

import "sync"

// BusyIndicator is a reference counted loading flag. It stays visible while
// any operation holds it, so overlapping operations cannot hide each other.
type BusyIndicator struct {
	mu    sync.Mutex
	count int
}

// Acquire shows the indicator. The returned release hides it once, further
// calls are no-ops.
func (b *BusyIndicator) Acquire() (release func()) {
	b.mu.Lock()
	b.count++
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.count > 0 {
				b.count--
			}
		})
	}
}

func (b *BusyIndicator) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count > 0
}

// Holders is the number of operations currently in flight.
func (b *BusyIndicator) Holders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
