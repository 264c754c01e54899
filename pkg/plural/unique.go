package plural

import (
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"
)

// Unique is an insertion-ordered collection whose items are unique across
// every declared key.
type Unique[T any] struct {
	keys  []Indexer[T]
	items []T

	// index maps key name -> key value -> position in items.
	index map[string]map[any]int
}

// New creates an empty collection with the given declared keys.
// It panics if two keys share a name.
func New[T any](keys ...Indexer[T]) *Unique[T] {
	u := &Unique[T]{
		keys:  keys,
		index: make(map[string]map[any]int, len(keys)),
	}
	for _, k := range keys {
		if _, exists := u.index[k.KeyName()]; exists {
			panic(fmt.Sprintf("plural: key %q declared twice", k.KeyName()))
		}
		u.index[k.KeyName()] = make(map[any]int)
	}
	return u
}

// Keys returns the declared key names in declaration order.
func (u *Unique[T]) Keys() []string {
	names := make([]string, len(u.keys))
	for i, k := range u.keys {
		names[i] = k.KeyName()
	}
	return names
}

// Len returns the number of held items.
func (u *Unique[T]) Len() int {
	return len(u.items)
}

// Add appends item, failing if any declared key value is already held or
// item is a nil pointer, map, slice, func, chan or interface.
func (u *Unique[T]) Add(item T) error {
	if err := u.check(item, nil); err != nil {
		return err
	}
	u.install(item)
	return nil
}

// Extend adds items in order. The batch is validated as a whole, against the
// held items and against itself, before anything is installed: on error the
// collection is unchanged.
func (u *Unique[T]) Extend(items ...T) error {
	pending := make(map[string]map[any]struct{}, len(u.keys))
	for _, k := range u.keys {
		pending[k.KeyName()] = make(map[any]struct{}, len(items))
	}

	for _, item := range items {
		if err := u.check(item, pending); err != nil {
			return err
		}
		for _, k := range u.keys {
			pending[k.KeyName()][k.KeyOf(item)] = struct{}{}
		}
	}

	for _, item := range items {
		u.install(item)
	}
	return nil
}

// check returns a DuplicateKeyError if item collides with a held item or
// with an entry of pending. Nil items are refused before any key is read.
func (u *Unique[T]) check(item T, pending map[string]map[any]struct{}) error {
	if isNil(item) {
		return ErrNilItem
	}
	for _, k := range u.keys {
		v := k.KeyOf(item)
		if _, exists := u.index[k.KeyName()][v]; exists {
			return &DuplicateKeyError{Key: k.KeyName(), Value: v}
		}
		if _, exists := pending[k.KeyName()][v]; exists {
			return &DuplicateKeyError{Key: k.KeyName(), Value: v}
		}
	}
	return nil
}

func (u *Unique[T]) install(item T) {
	pos := len(u.items)
	u.items = append(u.items, item)
	for _, k := range u.keys {
		u.index[k.KeyName()][k.KeyOf(item)] = pos
	}
}

// Get returns the item whose value for the named key equals v.
func (u *Unique[T]) Get(key string, v any) (T, error) {
	var zero T

	idx, ok := u.index[key]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	pos, ok := idx[v]
	if !ok {
		return zero, &NotFoundError{Key: key, Value: v}
	}
	return u.items[pos], nil
}

// Contains reports whether an item with the named key value is held.
func (u *Unique[T]) Contains(key string, v any) bool {
	_, ok := u.index[key][v]
	return ok
}

// Remove deletes the item whose value for the named key equals v and
// returns it. Positions of later items are shifted in every index.
func (u *Unique[T]) Remove(key string, v any) (T, error) {
	item, err := u.Get(key, v)
	if err != nil {
		return item, err
	}
	pos := u.index[key][v]

	for _, k := range u.keys {
		delete(u.index[k.KeyName()], k.KeyOf(item))
	}
	u.items = slices.Delete(u.items, pos, pos+1)

	for i := pos; i < len(u.items); i++ {
		for _, k := range u.keys {
			u.index[k.KeyName()][k.KeyOf(u.items[i])] = i
		}
	}
	return item, nil
}

// All returns an iterator over the held items in insertion order. The
// iterator can be ranged over more than once; each pass sees the items held
// when the pass starts.
func (u *Unique[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range u.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Items returns a snapshot of the held items in insertion order.
func (u *Unique[T]) Items() []T {
	return slices.Clone(u.items)
}

// Copy returns a collection with the same declared keys and its own item
// slice and index maps.
func (u *Unique[T]) Copy() *Unique[T] {
	c := &Unique[T]{
		keys:  slices.Clone(u.keys),
		items: slices.Clone(u.items),
		index: make(map[string]map[any]int, len(u.index)),
	}
	for name, idx := range u.index {
		c.index[name] = maps.Clone(idx)
	}
	return c
}

func isNil(item any) bool {
	if item == nil {
		return true
	}
	switch v := reflect.ValueOf(item); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
