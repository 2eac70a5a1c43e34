// Package valkeystore keeps client state in Valkey so several processes can share one session.
package valkeystore

import (
	"context"
	"fmt"
	"net"
	"sort"

	"github.com/valkey-io/valkey-go"

	"github.com/jrsteele09/go-admin-session/storage"
)

type Store struct {
	valkey valkey.Client
}

var _ storage.Backend = (*Store)(nil)

func New(valkeyClient valkey.Client) *Store {
	return &Store{valkey: valkeyClient}
}

// Dial connects to a Valkey server at addr ("host:port").
func Dial(addr string) (*Store, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return nil, fmt.Errorf("invalid valkey address %q: %w", addr, err)
	}
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("creating valkey client: %w", err)
	}
	return New(client), nil
}

func (s *Store) Close() {
	s.valkey.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, storage.ErrInvalidKey
	}

	value, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(key).Build()).ToString()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			return "", false, nil
		}
		return "", false, fmt.Errorf("executing get command: %w", err)
	}
	return value, true, nil
}

// Set writes all items with a single MSET, which Valkey applies atomically.
func (s *Store) Set(ctx context.Context, items map[string]string) error {
	if len(items) == 0 {
		return nil
	}

	keys := make([]string, 0, len(items))
	for k := range items {
		if k == "" {
			return storage.ErrInvalidKey
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmd := s.valkey.B().Mset().KeyValue()
	for _, k := range keys {
		cmd = cmd.KeyValue(k, items[k])
	}

	if err := s.valkey.Do(ctx, cmd.Build()).Error(); err != nil {
		return fmt.Errorf("executing mset command: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.valkey.Do(ctx, s.valkey.B().Del().Key(keys...).Build()).Error(); err != nil {
		return fmt.Errorf("executing del command: %w", err)
	}
	return nil
}
