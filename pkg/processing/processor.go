// Package processing holds the per-category snapshot processors. A processor
// owns the authoritative latest data point of its category and applies
// partial updates through the model's merge rules.
package processing

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pitlane-dev/pitlane/pkg/model"
)

// ErrMergeShape marks updates whose JSON does not match the category's
// expected shape. The update is dropped, the prior snapshot stays intact.
var ErrMergeShape = errors.New("update does not match category shape")

// Processor applies partial updates to a snapshot of type T. Writers are
// serialized by a mutex; the merged snapshot is published as an immutable
// value through an atomic pointer swap, so Latest never blocks and never
// observes a half-applied merge.
type Processor[T model.Mergeable[T]] struct {
	mu     sync.Mutex
	latest atomic.Pointer[T]
	hook   func(partial, merged T)
}

type Option[T model.Mergeable[T]] func(*Processor[T])

// WithApplyHook registers a callback invoked after each successful merge,
// inside the writer section, with the partial update and the new snapshot.
// Used by processors that maintain derived indices.
func WithApplyHook[T model.Mergeable[T]](hook func(partial, merged T)) Option[T] {
	return func(p *Processor[T]) {
		p.hook = hook
	}
}

func NewProcessor[T model.Mergeable[T]](opts ...Option[T]) *Processor[T] {
	p := &Processor[T]{}
	var zero T
	p.latest.Store(&zero)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Latest returns the current snapshot. Safe for concurrent use; the returned
// value is immutable.
func (p *Processor[T]) Latest() T {
	return *p.latest.Load()
}

// Apply merges the JSON partial update into the snapshot. On shape errors
// nothing is committed.
func (p *Processor[T]) Apply(payload []byte) error {
	var partial T
	if err := json.Unmarshal(payload, &partial); err != nil {
		return fmt.Errorf("%w: %w", ErrMergeShape, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	merged := (*p.latest.Load()).Merge(partial)
	p.latest.Store(&merged)
	if p.hook != nil {
		p.hook(partial, merged)
	}
	return nil
}

// Update runs a read-modify-write on the snapshot under the same writer lock
// used by Apply. fn must treat its argument as immutable and return the new
// snapshot. Used by consumer triggered side effects (team radio).
func (p *Processor[T]) Update(fn func(cur T) T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	merged := fn(*p.latest.Load())
	p.latest.Store(&merged)
}

// RawProcessor holds categories whose payload is kept as opaque text
// (car telemetry, position). Each update replaces the previous one.
type RawProcessor struct {
	inner *Processor[model.RawData]
}

func NewRawProcessor() *RawProcessor {
	return &RawProcessor{inner: NewProcessor[model.RawData]()}
}

func (p *RawProcessor) Latest() model.RawData {
	return p.inner.Latest()
}

func (p *RawProcessor) Apply(payload []byte) error {
	text := string(payload)
	p.inner.Update(func(cur model.RawData) model.RawData {
		return cur.Merge(model.RawData{Text: &text})
	})
	return nil
}
