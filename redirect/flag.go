package redirect

import "sync"

// FlagStore keeps one transient destination across the login round trip,
// consumed on read.
type FlagStore interface {
	// Set stores the destination, replacing any previous one.
	Set(target string)
	// Peek returns the destination without consuming it.
	Peek() string
	// Take returns the destination and clears it.
	Take() string
	// Clear drops the destination. Idempotent.
	Clear()
}

// MemoryFlag is the in-process FlagStore implementation.
type MemoryFlag struct {
	mu     sync.Mutex
	target string
}

// NewMemoryFlag creates an empty flag store.
func NewMemoryFlag() *MemoryFlag {
	return &MemoryFlag{}
}

func (f *MemoryFlag) Set(target string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.target = target
}

func (f *MemoryFlag) Peek() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.target
}

func (f *MemoryFlag) Take() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.target
	f.target = ""
	return target
}

func (f *MemoryFlag) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.target = ""
}
