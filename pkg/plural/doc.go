// Package plural implements ordered collections whose items must be unique
// across one or more declared keys.
//
// A Unique collection is declared with its keys up front:
//
//	byName := plural.NewKey("name", (*spec.Message).Name)
//	byID := plural.NewKey("id", (*spec.Message).ID)
//	msgs := plural.New[*spec.Message](byName, byID)
//
// Adding an item whose value for any declared key is already held fails with
// ErrDuplicateKey and leaves the collection unchanged. Lookups go through a
// per-key index map, so they stay O(1) regardless of collection size.
//
// # Ownership
//
// Copy returns a collection with its own item slice and index maps. The items
// themselves are shared, so T should be a value type or an immutable pointer.
//
// # Concurrency
//
// Collections are not safe for concurrent mutation. Callers that share a
// collection between goroutines must serialize writers themselves.
package plural
