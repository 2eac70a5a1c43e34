// Package storage is the client's durable key-value state: tokens, cached
// profile, tab history, lock screen and settings all live under namespaced keys.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned for empty keys.
var ErrInvalidKey = errors.New("storage key is required")

// Backend stores string values by key.
// Set applies every item in one step: a reader never observes a partial batch.
type Backend interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, items map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// Keys derives the fixed namespaced keys from a prefix such as "admin-dashboard:".
type Keys struct {
	prefix string
}

func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = "admin-dashboard:"
	}
	return Keys{prefix: prefix}
}

func (k Keys) AccessToken() string  { return k.prefix + "_access_token" }
func (k Keys) RefreshToken() string { return k.prefix + "_refresh_token" }
func (k Keys) UserInfo() string     { return k.prefix + "_user_info" }
func (k Keys) Settings() string     { return k.prefix + "_settings" }
func (k Keys) Tabs() string         { return k.prefix + "_tabs" }
func (k Keys) LockInfo() string     { return k.prefix + "_lock_info" }

// Session returns every key removed by logout.
func (k Keys) Session() []string {
	return []string{k.AccessToken(), k.RefreshToken(), k.UserInfo()}
}

// GetJSON decodes the value under key into v. found is false when the key is absent.
func GetJSON(ctx context.Context, b Backend, key string, v any) (bool, error) {
	raw, found, err := b.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if strings.TrimSpace(raw) == "" || raw == "null" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, b Backend, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return b.Set(ctx, map[string]string{key: string(raw)})
}
