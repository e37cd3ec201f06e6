// Package kvlite defines the shared data model and cache contract
// implemented by both the SQL-backed engine (package engine) and the
// in-memory engine (package memengine).
//
// An entry is identified by a (partition, key) pair. It carries a
// serialized, optionally compressed payload, an absolute UTC expiry, a
// sliding refresh interval, a creation timestamp, and up to MaxParents
// parent references whose removal cascades to the entry.
package kvlite

import (
	"context"

	"github.com/ilkerhalil/kvlite/serializer"
)

// MaxParents is the compile-time bound on parent references per entry
// (spec requires >= 2, recommends 5).
const MaxParents = 5

// CountMode selects whether Count/Clear consider expiry.
type CountMode int

const (
	// ConsiderExpiry restricts the operation to entries whose utc_expiry
	// has not yet passed.
	ConsiderExpiry CountMode = iota
	// IgnoreExpiry includes entries regardless of expiry.
	IgnoreExpiry
)

// ParentRef is a single advisory parent pointer: the parent's key, and
// optionally its partition (defaults to the child's own partition when
// empty — parents conventionally live alongside their children). Parent
// columns are not validated foreign keys unless the backing dialect
// enforces them: a ParentRef may name an entry that does not exist.
//
// Hash is populated by the engine when an entry is written (from Partition
// and Key via the configured Hasher) and is otherwise ignored on input.
type ParentRef struct {
	Partition string
	Key       string
	Hash      int64
}

// CacheEntry is the full persisted row (and the in-memory representation).
type CacheEntry struct {
	Hash        int64
	Partition   string
	Key         string
	UTCCreation int64 // seconds since epoch
	UTCExpiry   int64 // seconds since epoch; valid iff >= now
	Interval    int64 // sliding step seconds; 0 = no sliding
	Value       []byte
	Compressed  bool
	Parents     []ParentRef // len <= MaxParents
}

// CacheValue is the fast-path projection returned by Get/Peek.
type CacheValue struct {
	UTCExpiry  int64
	Interval   int64
	Value      []byte
	Compressed bool
}

// CacheItem pairs a CacheValue with its owning partition/key, returned by
// GetItems/PeekItems.
type CacheItem struct {
	Partition string
	Key       string
	CacheValue
}

// Cache is the contract both the SQL-backed engine and the in-memory
// engine implement. All methods take an implicit clock reading "now" once
// at entry. For the single-entry methods an empty partition means the
// settings' DefaultPartition; for Count, Clear, GetItems and PeekItems it
// means every partition.
type Cache interface {
	AddTimed(ctx context.Context, partition, key string, value []byte, utcExpiry int64, parents ...ParentRef) error
	AddSliding(ctx context.Context, partition, key string, value []byte, interval int64, parents ...ParentRef) error
	AddStatic(ctx context.Context, partition, key string, value []byte, parents ...ParentRef) error

	AddTimedAsync(ctx context.Context, partition, key string, value []byte, utcExpiry int64, parents ...ParentRef)
	AddSlidingAsync(ctx context.Context, partition, key string, value []byte, interval int64, parents ...ParentRef)
	AddStaticAsync(ctx context.Context, partition, key string, value []byte, parents ...ParentRef)

	Contains(ctx context.Context, partition, key string) (bool, error)
	Count(ctx context.Context, partition string, mode CountMode) (int64, error)

	Get(ctx context.Context, partition, key string) (CacheValue, bool, error)
	Peek(ctx context.Context, partition, key string) (CacheValue, bool, error)

	Remove(ctx context.Context, partition, key string) error
	Clear(ctx context.Context, partition string, mode CountMode) (int64, error)

	GetItems(ctx context.Context, partition string) ([]CacheItem, error)
	PeekItems(ctx context.Context, partition string) ([]CacheItem, error)

	GetCacheSizeInBytes(ctx context.Context) (int64, error)

	// CanPeek reports whether Peek is supported; engines without a
	// non-mutating read path return false and Peek returns a NotSupported
	// error.
	CanPeek() bool

	Name() string
	Ping(ctx context.Context) error
	Close() error
}

// AddFactory is the value-producing callback passed to GetOrAdd*.
type AddFactory func(ctx context.Context) ([]byte, error)

// GetOrAddTimed returns the existing valid value for (partition, key), or
// invokes factory and writes its result with an absolute expiry.
func GetOrAddTimed(ctx context.Context, c Cache, partition, key string, utcExpiry int64, factory AddFactory, parents ...ParentRef) ([]byte, error) {
	if v, ok, err := c.Get(ctx, partition, key); err != nil {
		return nil, err
	} else if ok {
		return v.Value, nil
	}
	value, err := factory(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.AddTimed(ctx, partition, key, value, utcExpiry, parents...); err != nil {
		return nil, err
	}
	return value, nil
}

// GetOrAddSliding returns the existing valid value for (partition, key), or
// invokes factory and writes its result with a sliding interval.
func GetOrAddSliding(ctx context.Context, c Cache, partition, key string, interval int64, factory AddFactory, parents ...ParentRef) ([]byte, error) {
	if v, ok, err := c.Get(ctx, partition, key); err != nil {
		return nil, err
	} else if ok {
		return v.Value, nil
	}
	value, err := factory(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.AddSliding(ctx, partition, key, value, interval, parents...); err != nil {
		return nil, err
	}
	return value, nil
}

// GetOrAddStatic returns the existing valid value for (partition, key), or
// invokes factory and writes its result with the configured static interval.
func GetOrAddStatic(ctx context.Context, c Cache, partition, key string, factory AddFactory, parents ...ParentRef) ([]byte, error) {
	if v, ok, err := c.Get(ctx, partition, key); err != nil {
		return nil, err
	} else if ok {
		return v.Value, nil
	}
	value, err := factory(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.AddStatic(ctx, partition, key, value, parents...); err != nil {
		return nil, err
	}
	return value, nil
}

// Option is a present-or-absent typed result, standing in for Get[T]/Peek[T]
// since Go has no native Option<T>.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get reports whether the Option holds a value.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

// OrElse returns the held value, or fallback if absent.
func (o Option[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// Get reads (partition, key) through c and deserializes it as T using s,
// bumping expiry on a sliding/static hit exactly as Cache.Get does. The
// engines themselves handle only byte slices; s is the parameterized
// typed layer above them.
func Get[T any](ctx context.Context, c Cache, s serializer.Serializer, partition, key string) (Option[T], error) {
	v, ok, err := c.Get(ctx, partition, key)
	if err != nil || !ok {
		return None[T](), err
	}
	var out T
	if err := s.Decode(v.Value, &out); err != nil {
		return None[T](), NewError("kvlite.Get", SerializationFailure, err)
	}
	return Some(out), nil
}

// Peek is Get without the expiry-bump side effect, mirroring Cache.Peek.
func Peek[T any](ctx context.Context, c Cache, s serializer.Serializer, partition, key string) (Option[T], error) {
	v, ok, err := c.Peek(ctx, partition, key)
	if err != nil || !ok {
		return None[T](), err
	}
	var out T
	if err := s.Decode(v.Value, &out); err != nil {
		return None[T](), NewError("kvlite.Peek", SerializationFailure, err)
	}
	return Some(out), nil
}

// AddTimedValue serializes value with s and writes it with an absolute
// expiry, the typed counterpart to Cache.AddTimed.
func AddTimedValue[T any](ctx context.Context, c Cache, s serializer.Serializer, partition, key string, value T, utcExpiry int64, parents ...ParentRef) error {
	data, err := s.Encode(value)
	if err != nil {
		return NewError("kvlite.AddTimedValue", SerializationFailure, err)
	}
	return c.AddTimed(ctx, partition, key, data, utcExpiry, parents...)
}

// AddSlidingValue serializes value with s and writes it with a sliding
// interval, the typed counterpart to Cache.AddSliding.
func AddSlidingValue[T any](ctx context.Context, c Cache, s serializer.Serializer, partition, key string, value T, interval int64, parents ...ParentRef) error {
	data, err := s.Encode(value)
	if err != nil {
		return NewError("kvlite.AddSlidingValue", SerializationFailure, err)
	}
	return c.AddSliding(ctx, partition, key, data, interval, parents...)
}

// AddStaticValue serializes value with s and writes it with the configured
// static interval, the typed counterpart to Cache.AddStatic.
func AddStaticValue[T any](ctx context.Context, c Cache, s serializer.Serializer, partition, key string, value T, parents ...ParentRef) error {
	data, err := s.Encode(value)
	if err != nil {
		return NewError("kvlite.AddStaticValue", SerializationFailure, err)
	}
	return c.AddStatic(ctx, partition, key, data, parents...)
}
