package resilience

import "sync"

type flightResult struct {
	value any
	err   error
}

type flight struct {
	done   chan struct{}
	result flightResult
}

// Group deduplicates concurrent calls that share a key. Duplicate callers
// block until the in-flight call finishes and receive its result.
type Group struct {
	mu      sync.Mutex
	flights map[string]*flight
}

func NewGroup() *Group {
	return &Group{flights: make(map[string]*flight)}
}

func (g *Group) Do(key string, fn func() (any, error)) (any, error) {
	g.mu.Lock()
	if existing, ok := g.flights[key]; ok {
		g.mu.Unlock()
		<-existing.done
		return existing.result.value, existing.result.err
	}

	current := &flight{done: make(chan struct{})}
	g.flights[key] = current
	g.mu.Unlock()

	value, err := fn()
	current.result = flightResult{value: value, err: err}
	close(current.done)

	g.mu.Lock()
	delete(g.flights, key)
	g.mu.Unlock()

	return value, err
}
