package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Store is a byte-oriented key-value store. A zero ttl means no expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Namespace prefixes every key with prefix and a colon, so that each visitor
// session gets its own slice of a shared store.
func Namespace(store Store, prefix string) Store {
	return &namespaced{store: store, prefix: prefix + ":"}
}

type namespaced struct {
	store  Store
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return n.store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	return n.store.Set(ctx, n.prefix+key, val, ttl)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return n.store.Delete(ctx, n.prefix+key)
}

// GetJSON decodes the value under key into a new T.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, error) {
	var v T
	raw, err := s.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, errors.Join(ErrDecode, err)
	}
	return v, nil
}

// GetJSONOr is GetJSON that returns def when the key is missing.
func GetJSONOr[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	v, err := GetJSON[T](ctx, s, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}

func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	return s.Set(ctx, key, raw, ttl)
}
