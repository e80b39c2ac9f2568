// Package kv provides the durable key-value storage wishlists are persisted to.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has never been written
var ErrNotFound = errors.New("key not found")

// Storage is a flat key-value store. Set replaces any previous value.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Scope prefixes every key with a namespace so one backend can hold the
// data of many visitors
type Scope struct {
	storage Storage
	prefix  string
}

// Scoped wraps storage under namespace
func Scoped(storage Storage, namespace string) *Scope {
	return &Scope{storage: storage, prefix: namespace + ":"}
}

func (s *Scope) Get(ctx context.Context, key string) ([]byte, error) {
	return s.storage.Get(ctx, s.prefix+key)
}

func (s *Scope) Set(ctx context.Context, key string, value []byte) error {
	return s.storage.Set(ctx, s.prefix+key, value)
}

// VisitorNamespace is the namespace holding one visitor's data
func VisitorNamespace(visitorID string) string {
	return "visitor:" + visitorID
}
