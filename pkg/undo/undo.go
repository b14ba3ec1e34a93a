// Package undo keeps an undo/redo history of a value as serialized snapshots.
//
// Snapshots are encoded on the way in and decoded on the way out, so later
// changes to the caller's live value never reach a recorded state.
//
//	q, _ := undo.New(list, 50, undo.JSONCodec[[]int]{})
//	list = append(list, 4)
//	_ = q.Register(list)
//	list, _ = q.Undo() // previous list
//	list, _ = q.Redo() // list with 4
package undo

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Unlimited disables the depth bound on the undo history.
const Unlimited = -1

// Codec converts values to and from snapshots.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSONCodec snapshots values with encoding/json.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// Queue tracks the current snapshot plus undo and redo stacks.
// It is safe for concurrent use.
type Queue[T any] struct {
	mu       sync.Mutex
	codec    Codec[T]
	maxDepth int
	current  []byte
	undo     [][]byte // oldest first; the top of the stack is the last element
	redo     [][]byte // oldest first; the top of the stack is the last element
}

// New creates a queue whose current state is a snapshot of initial.
// maxDepth bounds how many undo steps are kept: negative means unlimited and
// zero disables undo.
func New[T any](initial T, maxDepth int, codec Codec[T]) (*Queue[T], error) {
	snap, err := codec.Encode(initial)
	if err != nil {
		return nil, fmt.Errorf("encoding initial state: %w", err)
	}
	return NewFromSnapshot(snap, maxDepth, codec), nil
}

// NewFromSnapshot creates a queue from an already encoded initial state.
func NewFromSnapshot[T any](initial []byte, maxDepth int, codec Codec[T]) *Queue[T] {
	return &Queue[T]{
		codec:    codec,
		maxDepth: maxDepth,
		current:  clone(initial),
	}
}

// Register records v as the new current state. The previous state moves onto
// the undo stack and the redo stack is cleared. Unchanged states are not
// detected; each call uses a history slot.
func (q *Queue[T]) Register(v T) error {
	snap, err := q.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	q.RegisterSnapshot(snap)
	return nil
}

// RegisterSnapshot is Register for an already encoded state.
func (q *Queue[T]) RegisterSnapshot(snap []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.undo = append(q.undo, q.current)
	if q.maxDepth >= 0 && len(q.undo) > q.maxDepth {
		q.undo = q.undo[len(q.undo)-q.maxDepth:]
	}
	q.current = clone(snap)
	q.redo = nil
}

// Undo steps back one state and returns it. With nothing to undo it returns
// the current state unchanged.
func (q *Queue[T]) Undo() (T, error) {
	return q.decode(q.UndoSnapshot())
}

// Redo steps forward one state and returns it. With nothing to redo it
// returns the current state unchanged.
func (q *Queue[T]) Redo() (T, error) {
	return q.decode(q.RedoSnapshot())
}

// UndoSnapshot is Undo without decoding.
func (q *Queue[T]) UndoSnapshot() []byte {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n := len(q.undo); n > 0 {
		q.redo = append(q.redo, q.current)
		q.current = q.undo[n-1]
		q.undo = q.undo[:n-1]
	}
	return clone(q.current)
}

// RedoSnapshot is Redo without decoding.
func (q *Queue[T]) RedoSnapshot() []byte {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n := len(q.redo); n > 0 {
		q.undo = append(q.undo, q.current)
		q.current = q.redo[n-1]
		q.redo = q.redo[:n-1]
	}
	return clone(q.current)
}

// Current returns the decoded current state.
func (q *Queue[T]) Current() (T, error) {
	q.mu.Lock()
	snap := clone(q.current)
	q.mu.Unlock()
	return q.decode(snap)
}

// CanUndo reports whether Undo would change the state.
func (q *Queue[T]) CanUndo() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.undo) > 0
}

// CanRedo reports whether Redo would change the state.
func (q *Queue[T]) CanRedo() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.redo) > 0
}

// Depths returns the number of undo and redo steps available.
func (q *Queue[T]) Depths() (undos, redos int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.undo), len(q.redo)
}

func (q *Queue[T]) decode(snap []byte) (T, error) {
	v, err := q.codec.Decode(snap)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("decoding state: %w", err)
	}
	return v, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
