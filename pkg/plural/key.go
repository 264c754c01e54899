package plural

// Indexer is a declared key of a Unique collection. It is implemented by Key.
type Indexer[T any] interface {
	// KeyName returns the name the key is declared under.
	KeyName() string

	// KeyOf projects an item onto its key value.
	KeyOf(item T) any
}

// Key is a typed key declaration. The type parameter K keeps lookups
// type-checked: Key[*Message, uint32] cannot be queried with a string.
type Key[T any, K comparable] struct {
	name string
	of   func(T) K
}

// NewKey declares a key named name whose value is computed by of.
func NewKey[T any, K comparable](name string, of func(T) K) Key[T, K] {
	return Key[T, K]{name: name, of: of}
}

// KeyName returns the key name.
func (k Key[T, K]) KeyName() string { return k.name }

// KeyOf returns the boxed key value of item.
func (k Key[T, K]) KeyOf(item T) any { return k.of(item) }

// Value returns the typed key value of item.
func (k Key[T, K]) Value(item T) K { return k.of(item) }

// Lookup returns the item of u whose value for this key equals v.
func (k Key[T, K]) Lookup(u *Unique[T], v K) (T, error) {
	return u.Get(k.name, v)
}

// Has reports whether u holds an item whose value for this key equals v.
func (k Key[T, K]) Has(u *Unique[T], v K) bool {
	return u.Contains(k.name, v)
}

// Compile-time interface satisfaction check.
var _ Indexer[string] = Key[string, int]{}
