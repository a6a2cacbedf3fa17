// Package storage provides the durable key-value slot the cart persists
// itself into. Two implementations exist: a PostgreSQL-backed slot and a
// local file slot used as a fallback when the database is disabled.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value has been stored under a name.
var ErrNotFound = errors.New("slot not found")

// Slot is a durable key-value slot keyed by a fixed name.
type Slot interface {
	// Get returns the value stored under name, or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put stores value under name, replacing any previous value.
	Put(ctx context.Context, name string, value []byte) error
}
