package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection provides typed access to one collection of a Backend.
// It performs no business validation; callers keep references consistent.
type Collection[T any] struct {
	backend Backend
	name    string
	idOf    func(*T) string
	indexes map[string]Index[T]
}

// Index defines a secondary lookup on a collection. Lookups scan the
// collection, which is fine at fixture scale.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string
}

// NewCollection creates a collection named name whose record ids are read with idOf.
func NewCollection[T any](backend Backend, name string, idOf func(*T) string) *Collection[T] {
	return &Collection[T]{
		backend: backend,
		name:    name,
		idOf:    idOf,
		indexes: make(map[string]Index[T]),
	}
}

// WithIndex adds a secondary index.
func (c *Collection[T]) WithIndex(name string, keyGen func(*T) []string) *Collection[T] {
	c.indexes[name] = Index[T]{name: name, keyGen: keyGen}
	return c
}

// WithIndexTransform adds a secondary index whose lookup values are passed
// through lookupTransform first, enabling case-insensitive lookups.
func (c *Collection[T]) WithIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Collection[T] {
	c.indexes[name] = Index[T]{name: name, keyGen: keyGen, lookupTransform: lookupTransform}
	return c
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// FindByID returns the record with the given id, or ErrNotFound.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	data, err := c.backend.Get(ctx, c.name, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound.WithMessage(fmt.Sprintf("%s/%s not found", c.name, id))
		}
		return nil, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}

	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal %s/%s: %w", c.name, id, err)
	}
	return &rec, nil
}

// Exists reports whether a record with id is stored.
func (c *Collection[T]) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.backend.Get(ctx, c.name, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
}

// Insert appends a new record. Returns ErrAlreadyExists if the id is taken.
func (c *Collection[T]) Insert(ctx context.Context, rec *T) error {
	id := c.idOf(rec)
	exists, err := c.Exists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists.WithMessage(fmt.Sprintf("%s/%s already exists", c.name, id))
	}
	return c.put(ctx, id, rec)
}

// Update replaces an existing record in place. Returns ErrNotFound if it is missing.
func (c *Collection[T]) Update(ctx context.Context, rec *T) error {
	id := c.idOf(rec)
	exists, err := c.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound.WithMessage(fmt.Sprintf("%s/%s not found", c.name, id))
	}
	return c.put(ctx, id, rec)
}

// RemoveByID deletes a record. Cascades are the caller's job.
func (c *Collection[T]) RemoveByID(ctx context.Context, id string) error {
	if err := c.backend.Delete(ctx, c.name, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound.WithMessage(fmt.Sprintf("%s/%s not found", c.name, id))
		}
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	return nil
}

// All returns every record in insertion order.
func (c *Collection[T]) All(ctx context.Context) ([]*T, error) {
	payloads, err := c.backend.List(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}

	out := make([]*T, 0, len(payloads))
	for _, data := range payloads {
		var rec T
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal %s record: %w", c.name, err)
		}
		out = append(out, &rec)
	}
	return out, nil
}

// Filter returns the records matching keep, in insertion order.
func (c *Collection[T]) Filter(ctx context.Context, keep func(*T) bool) ([]*T, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}

	out := all[:0]
	for _, rec := range all {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindMany resolves ids in order, silently dropping ids with no record.
func (c *Collection[T]) FindMany(ctx context.Context, ids []string) ([]*T, error) {
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		rec, err := c.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Count returns the number of records.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	payloads, err := c.backend.List(ctx, c.name)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", c.name, err)
	}
	return len(payloads), nil
}

// GetByIndex returns the first record whose index keys contain value.
func (c *Collection[T]) GetByIndex(ctx context.Context, index, value string) (*T, error) {
	matches, err := c.ListByIndex(ctx, index, value)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound.WithMessage(fmt.Sprintf("%s with %s %q not found", c.name, index, value))
	}
	return matches[0], nil
}

// ListByIndex returns every record whose index keys contain value.
func (c *Collection[T]) ListByIndex(ctx context.Context, index, value string) ([]*T, error) {
	idx, ok := c.indexes[index]
	if !ok {
		return nil, ErrUnknownIndex.WithMessage(fmt.Sprintf("%s has no index %q", c.name, index))
	}
	if idx.lookupTransform != nil {
		value = idx.lookupTransform(value)
	}

	return c.Filter(ctx, func(rec *T) bool {
		for _, key := range idx.keyGen(rec) {
			if key == value {
				return true
			}
		}
		return false
	})
}

func (c *Collection[T]) put(ctx context.Context, id string, rec *T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", c.name, id, err)
	}
	if err := c.backend.Put(ctx, c.name, id, data); err != nil {
		return fmt.Errorf("put %s/%s: %w", c.name, id, err)
	}
	return nil
}
