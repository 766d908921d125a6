// Package list implements an incrementally-growing ordered collection whose
// items load their payloads asynchronously from a backing store.
//
// The provider owns the collection on a single observation context: the
// goroutine that constructs it and calls its methods (in the TUI that is the
// bubbletea update loop). Fetch work runs on one goroutine per item; each
// result crosses back over a single completions channel and is applied with
// Apply on the observation context. That channel is the only synchronization
// point, so the provider itself needs no locks.
package list

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Executor fetches one item's payload. Implementations may run concurrently
// for distinct indices, may be arbitrarily slow, give no ordering guarantee
// between completions and do not retry internally.
type Executor[P any] interface {
	FetchItem(ctx context.Context, index int) (P, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc[P any] func(ctx context.Context, index int) (P, error)

func (f ExecutorFunc[P]) FetchItem(ctx context.Context, index int) (P, error) {
	return f(ctx, index)
}

// Config holds the provider's growth policy. It is immutable after New.
//
// PrefetchMargin is the distance from the end of the collection at which the
// next batch is triggered; keeping it well below BatchSize means growth
// fires once per batch instead of thrashing on every cursor move.
type Config struct {
	BatchSize      int
	PrefetchMargin int
}

func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("BatchSize must be positive: %d", c.BatchSize)
	}
	if c.PrefetchMargin < 0 {
		return fmt.Errorf("PrefetchMargin must not be negative: %d", c.PrefetchMargin)
	}
	if c.PrefetchMargin >= c.BatchSize {
		return fmt.Errorf("PrefetchMargin must be smaller than BatchSize: %d >= %d", c.PrefetchMargin, c.BatchSize)
	}
	return nil
}

// EventKind distinguishes collection-level from item-level notifications.
type EventKind int

const (
	EventCollectionChanged EventKind = iota
	EventItemUpdated
)

// Event is delivered synchronously to subscribed observers on the
// observation context. Len is set for collection events, Index and Status
// for item events. Observers key per-item state by (Generation, Index); a
// reset is a full identity change even when indices coincide.
type Event struct {
	Kind       EventKind
	Generation uuid.UUID
	Len        int
	Index      int
	Status     Status
}

// Completion carries one fetch result from an executor goroutine back to the
// observation context. It is tagged with the generation it was issued under;
// Apply discards completions whose generation is stale.
type Completion[P any] struct {
	generation uuid.UUID
	index      int
	payload    P
	err        error
}

func (c Completion[P]) Index() int {
	return c.index
}

func (c Completion[P]) Err() error {
	return c.err
}

const defaultCompletionBuffer = 64

// Provider owns the ordered, append-only collection, the batch growth
// policy and the prefetch trigger.
type Provider[P any] struct {
	cfg         Config
	exec        Executor[P]
	log         zerolog.Logger
	items       []*Item[P]
	generation  uuid.UUID
	completions chan Completion[P]
	observers   []func(Event)
}

type Option[P any] func(*Provider[P])

func WithLogger[P any](log zerolog.Logger) Option[P] {
	return func(p *Provider[P]) { p.log = log }
}

// WithCompletionBuffer sizes the completions channel. Fetch goroutines block
// on a full channel until the observation context drains it.
func WithCompletionBuffer[P any](n int) Option[P] {
	return func(p *Provider[P]) { p.completions = make(chan Completion[P], n) }
}

// New validates the configuration, then loads the first batch so the
// collection is usable without waiting for a consumer signal.
func New[P any](cfg Config, exec Executor[P], opts ...Option[P]) (*Provider[P], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("provider config: %w", err)
	}
	if exec == nil {
		return nil, fmt.Errorf("provider requires an executor")
	}

	p := &Provider[P]{
		cfg:  cfg,
		exec: exec,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.completions == nil {
		p.completions = make(chan Completion[P], defaultCompletionBuffer)
	}

	p.Reset()
	return p, nil
}

// Subscribe registers an observer for collection and item notifications.
// Observers run synchronously on the observation context.
func (p *Provider[P]) Subscribe(fn func(Event)) {
	p.observers = append(p.observers, fn)
}

func (p *Provider[P]) notify(ev Event) {
	for _, fn := range p.observers {
		fn(ev)
	}
}

// Items returns a read-only snapshot of the current collection in index
// order. The items themselves are shared; they are only ever mutated on the
// observation context.
func (p *Provider[P]) Items() []*Item[P] {
	out := make([]*Item[P], len(p.items))
	copy(out, p.items)
	return out
}

func (p *Provider[P]) Len() int {
	return len(p.items)
}

// Generation identifies the current epoch of the collection. It changes on
// every Reset.
func (p *Provider[P]) Generation() uuid.UUID {
	return p.generation
}

// Completions is the delivery channel for fetch results. The observation
// context reads from it and hands each value to Apply.
func (p *Provider[P]) Completions() <-chan Completion[P] {
	return p.completions
}

// Reset discards the collection, starts a new generation and loads a fresh
// first batch. Fetches still in flight from the previous generation are not
// cancelled; their completions carry the old generation tag and Apply drops
// them, so they can never land in the new collection.
func (p *Provider[P]) Reset() {
	p.items = nil
	p.generation = uuid.New()
	metricResets.Inc()
	metricCollectionSize.Set(0)
	p.log.Debug().Stringer("generation", p.generation).Msg("collection reset")
	p.notify(Event{Kind: EventCollectionChanged, Generation: p.generation, Len: 0})

	// Read position "before the first item": with an empty collection the
	// trigger condition always holds, so this appends exactly one batch.
	p.extend(0)
}

// FetchMoreItemsIfNeeded reports that the consumer's read position reached
// currentIndex and grows the collection when the position is within
// PrefetchMargin of its end. Calls below the margin, and calls with a
// negative index, are no-ops.
func (p *Provider[P]) FetchMoreItemsIfNeeded(currentIndex int) {
	if currentIndex < 0 {
		return
	}
	if currentIndex < len(p.items)-p.cfg.PrefetchMargin {
		return
	}
	p.extend(currentIndex)
}

// extend appends items for [len(items), endIndex) in ascending order and
// starts each one's fetch. endIndex covers currentIndex even when it jumped
// far past a single batch.
func (p *Provider[P]) extend(currentIndex int) {
	start := len(p.items)
	end := start + p.cfg.BatchSize
	if currentIndex+1 > end {
		end = currentIndex + 1
	}

	for index := start; index < end; index++ {
		it := newItem[P](index)
		p.items = append(p.items, it)
		p.startFetch(it)
	}

	metricCollectionSize.Set(float64(len(p.items)))
	p.log.Debug().
		Int("start", start).
		Int("end", end).
		Int("len", len(p.items)).
		Msg("batch appended")
	p.notify(Event{Kind: EventCollectionChanged, Generation: p.generation, Len: len(p.items)})
}

// EnsureFetched re-requests an existing item that is Unfetched, which only
// happens after a failed fetch. Out-of-range indices and items that are
// already Fetching or Fetched are ignored.
func (p *Provider[P]) EnsureFetched(index int) {
	if index < 0 || index >= len(p.items) {
		return
	}
	p.startFetch(p.items[index])
}

func (p *Provider[P]) startFetch(it *Item[P]) {
	if !it.begin() {
		return
	}
	metricFetchesStarted.Inc()
	p.notify(Event{Kind: EventItemUpdated, Generation: p.generation, Index: it.index, Status: StatusFetching})

	// The generation is captured here, on the observation context, so the
	// completion is tagged with the epoch the fetch belongs to.
	gen := p.generation
	index := it.index
	go func() {
		payload, err := p.exec.FetchItem(context.Background(), index)
		p.completions <- Completion[P]{generation: gen, index: index, payload: payload, err: err}
	}()
}

// Apply folds one fetch result into the collection. It must be called on the
// observation context. Stale-generation and out-of-range completions are
// discarded; failures return the item to Unfetched; successes set payload
// and status together, so observers never see a partial state.
func (p *Provider[P]) Apply(c Completion[P]) {
	if c.generation != p.generation {
		metricStaleCompletions.Inc()
		p.log.Debug().Int("index", c.index).Msg("discarded stale completion")
		return
	}
	if c.index < 0 || c.index >= len(p.items) {
		return
	}

	it := p.items[c.index]
	if c.err != nil {
		metricFetchFailures.Inc()
		p.log.Warn().Err(c.err).Int("index", c.index).Msg("item fetch failed")
		it.fail()
		p.notify(Event{Kind: EventItemUpdated, Generation: p.generation, Index: c.index, Status: it.status})
		return
	}

	metricFetchesCompleted.Inc()
	it.complete(c.payload)
	p.notify(Event{Kind: EventItemUpdated, Generation: p.generation, Index: c.index, Status: it.status})
}
