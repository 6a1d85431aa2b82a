// Package tasbeeh keeps persistent tap counters.
package tasbeeh

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var ErrInvalidCounter = errors.New("invalid counter id")

// DefaultCounters are the tasbeeh counters shown on the counters page.
var DefaultCounters = []string{"one", "two", "three"}

var validID = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

// KV is the storage the counters live in.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Namespace selects the key prefix of a family of counters.
type Namespace string

const (
	// Tasbeeh counters are stored as "counter_<id>".
	Tasbeeh Namespace = "counter_"
	// Prayer tap counters are stored as "counter-<prayer>".
	Prayer Namespace = "counter-"
)

type Service struct {
	kv KV
}

func NewService(kv KV) *Service {
	return &Service{kv: kv}
}

func key(ns Namespace, id string) (string, error) {
	if !validID.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCounter, id)
	}
	return string(ns) + id, nil
}

// Get returns the counter value; a missing counter reads as 0.
func (s *Service) Get(ctx context.Context, ns Namespace, id string) (int64, error) {
	k, err := key(ns, id)
	if err != nil {
		return 0, err
	}
	v, ok, err := s.kv.Get(ctx, k)
	if err != nil {
		return 0, fmt.Errorf("read counter %s: %w", k, err)
	}
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (s *Service) Increment(ctx context.Context, ns Namespace, id string) (int64, error) {
	k, err := key(ns, id)
	if err != nil {
		return 0, err
	}
	n, err := s.kv.Incr(ctx, k)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", k, err)
	}
	return n, nil
}

func (s *Service) Reset(ctx context.Context, ns Namespace, id string) error {
	k, err := key(ns, id)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, k, "0"); err != nil {
		return fmt.Errorf("reset counter %s: %w", k, err)
	}
	return nil
}

// All reads several counters at once.
func (s *Service) All(ctx context.Context, ns Namespace, ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	for _, id := range ids {
		n, err := s.Get(ctx, ns, id)
		if err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, nil
}
