package artifact

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// LoadError means a named artifact is missing or cannot be decoded.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load artifact %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader deserializes artifacts from a Store and caches them by name. Each
// name is read from storage once per Loader; every later Load returns the
// same value. Failed loads are not cached.
type Loader[T any] struct {
	store  Store
	decode func([]byte) (T, error)

	mu      sync.Mutex
	entries map[string]*entry[T]
}

type entry[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func NewLoader[T any](store Store, decode func([]byte) (T, error)) *Loader[T] {
	return &Loader[T]{
		store:   store,
		decode:  decode,
		entries: make(map[string]*entry[T]),
	}
}

// Load returns the artifact called name, reading it on first use.
// Concurrent callers for an unloaded name wait for the single read. The read
// is shared, so cancelling the caller that started it does not cancel it.
func (l *Loader[T]) Load(ctx context.Context, name string) (T, error) {
	l.mu.Lock()
	e, ok := l.entries[name]
	if !ok {
		e = &entry[T]{done: make(chan struct{})}
		l.entries[name] = e
		l.mu.Unlock()

		e.val, e.err = l.read(context.WithoutCancel(ctx), name)
		if e.err != nil {
			l.mu.Lock()
			delete(l.entries, name)
			l.mu.Unlock()
		}
		close(e.done)
		return e.val, e.err
	}
	l.mu.Unlock()

	select {
	case <-e.done:
		return e.val, e.err
	case <-ctx.Done():
		var zero T
		return zero, &LoadError{Name: name, Err: ctx.Err()}
	}
}

// Loaded reports whether name is cached.
func (l *Loader[T]) Loaded(name string) bool {
	l.mu.Lock()
	e, ok := l.entries[name]
	l.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case <-e.done:
		return e.err == nil
	default:
		return false
	}
}

func (l *Loader[T]) read(ctx context.Context, name string) (T, error) {
	var zero T

	blob, err := l.store.Fetch(ctx, name)
	if err != nil {
		return zero, &LoadError{Name: name, Err: err}
	}
	data, err := blob.Bytes()
	if err != nil {
		return zero, &LoadError{Name: name, Err: err}
	}
	val, err := l.decode(data)
	if err != nil {
		return zero, &LoadError{Name: name, Err: err}
	}

	log.Printf("[Artifacts] Loaded %q (%d bytes)", name, len(data))
	return val, nil
}
