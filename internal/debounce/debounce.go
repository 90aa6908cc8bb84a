// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package debounce delays search-as-you-type queries until input settles.
//
// Each Submit starts a new generation. A timer dispatches the query once
// the delay passes without further input, and only if its generation is
// still the latest. A dispatch that is already running when newer input
// arrives is not interrupted; its result is dropped on arrival instead.
package debounce

import (
	"context"
	"sync"
	"time"
)

// SearchFunc runs one query.
type SearchFunc[T any] func(ctx context.Context, query string) (T, error)

// DeliverFunc receives the result of the latest query.
type DeliverFunc[T any] func(query string, result T, err error)

// Debouncer coalesces rapid queries into one search.
type Debouncer[T any] struct {
	delay   time.Duration
	search  SearchFunc[T]
	deliver DeliverFunc[T]

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	pending string
	closed  bool

	// inflight counts scheduled timers and running dispatches.
	inflight sync.WaitGroup
}

// New returns a Debouncer that waits delay after the last Submit before
// calling search, then passes the result to deliver.
func New[T any](delay time.Duration, search SearchFunc[T], deliver DeliverFunc[T]) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, search: search, deliver: deliver}
}

// Submit replaces any pending query with query and restarts the delay.
// It returns the generation assigned to query. Submit after Close is a
// no-op returning 0.
func (d *Debouncer[T]) Submit(query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0
	}

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = query
	d.inflight.Add(1)
	d.timer = time.AfterFunc(d.delay, func() { d.dispatch(gen, query) })
	return gen
}

// Generation returns the generation of the most recent Submit.
func (d *Debouncer[T]) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}

// Flush dispatches the pending query now, if any, and waits for every
// dispatch to finish.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	var run func()
	if d.timer != nil && d.timer.Stop() {
		gen, query := d.gen, d.pending
		run = func() { d.dispatch(gen, query) }
	}
	d.timer = nil
	d.mu.Unlock()

	if run != nil {
		run()
	}
	d.inflight.Wait()
}

// Close drops the pending query and discards the result of any dispatch
// still running. It does not wait for running dispatches.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
	d.gen++
}

// stopLocked cancels the scheduled timer. A timer that already fired owns
// its inflight count and releases it in dispatch.
func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil && d.timer.Stop() {
		d.inflight.Done()
	}
	d.timer = nil
}

func (d *Debouncer[T]) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen && !d.closed
}

func (d *Debouncer[T]) dispatch(gen uint64, query string) {
	defer d.inflight.Done()
	if !d.current(gen) {
		return
	}
	result, err := d.search(context.Background(), query)
	if !d.current(gen) {
		return
	}
	d.deliver(query, result, err)
}
