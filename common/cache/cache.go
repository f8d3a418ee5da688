package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("key not found in cache")
	ErrInvalidValue = errors.New("invalid value for cache")
	ErrClosed       = errors.New("cache is closed")
	ErrInvalidKey   = errors.New("invalid cache key")
)

// Cache stores JSON-encodable values. Get decodes into value, which must be a
// non-nil pointer.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Get(ctx context.Context, key string, value interface{}) error

	Delete(ctx context.Context, key string) error

	Clear(ctx context.Context) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	CleanupInterval time.Duration

	MaxEntries int

	RedisURL string

	RedisPassword string

	RedisDB int
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Minute * 5,
		MaxEntries:      1000,
	}
}

// Encode and Decode are shared by the implementations so that a value read
// from one backend looks the same as one read from another.
func Encode(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, ErrInvalidValue
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Join(ErrInvalidValue, err)
		}
		return data, nil
	}
}

func Decode(data []byte, value interface{}) error {
	switch v := value.(type) {
	case nil:
		return ErrInvalidValue
	case *string:
		*v = string(data)
	case *[]byte:
		*v = append((*v)[:0], data...)
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return errors.Join(ErrInvalidValue, err)
		}
	}
	return nil
}

func ValidKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
