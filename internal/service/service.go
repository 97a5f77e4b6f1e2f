// Package service orchestrates domain operations on top of the store,
// owning validation, authorization decisions and post-commit event
// dispatch. Store writes commit first; events and notifications follow
// and never roll a committed write back.
package service

// EventEmitter is the interface for emitting SSE events.
// Services use this to broadcast changes without depending on SSE
// implementation details.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}
