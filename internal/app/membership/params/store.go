package params

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

// Provider gives typed access to organisation parameters. Unregistered keys fail
// with domain.ErrUnknownParameter, unparsable values with domain.ErrInvalidParameterValue.
type Provider interface {
	Bool(ctx context.Context, key Key) (bool, error)
	Int(ctx context.Context, key Key) (int, error)
	String(ctx context.Context, key Key) (string, error)
	Date(ctx context.Context, key Key) (time.Time, error)
}

// Source loads the raw stored values, keyed by parameter name. Keys missing from the
// result fall back to their defaults.
type Source interface {
	LoadParameters(ctx context.Context) (map[string]string, error)
}

// Store is a Provider backed by a Source. Values are loaded in one batch and kept for
// ttl; a zero ttl keeps them until Invalidate. Store is safe for concurrent use.
type Store struct {
	source Source
	ttl    time.Duration
	clock  clock.Clock

	mu       sync.Mutex
	values   map[Key]string
	loadedAt time.Time
	loaded   bool
}

// NewStore creates a Store.
func NewStore(source Source, ttl time.Duration, clk clock.Clock) *Store {
	return &Store{source: source, ttl: ttl, clock: clk}
}

// NewStatic creates a Store over fixed values, for tests and demo mode.
func NewStatic(values map[Key]string) *Store {
	raw := make(map[string]string, len(values))
	for k, v := range values {
		raw[string(k)] = v
	}
	return NewStore(staticSource(raw), 0, clock.NewRealClock())
}

type staticSource map[string]string

func (s staticSource) LoadParameters(context.Context) (map[string]string, error) {
	return s, nil
}

// Invalidate drops the cached values; the next read reloads them.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
}

// Raw returns the effective raw value of key (stored value or default).
func (s *Store) Raw(ctx context.Context, key Key) (string, error) {
	def, err := key.definition()
	if err != nil {
		return "", err
	}
	values, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}
	if v, ok := values[key]; ok {
		return v, nil
	}
	return def.def, nil
}

// Values returns the effective raw values of all registered keys.
func (s *Store) Values(ctx context.Context) (map[Key]string, error) {
	out := make(map[Key]string, len(registry))
	for _, k := range Keys() {
		v, err := s.Raw(ctx, k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (s *Store) snapshot(ctx context.Context) (map[Key]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.loaded && (s.ttl == 0 || now.Sub(s.loadedAt) < s.ttl) {
		return s.values, nil
	}

	raw, err := s.source.LoadParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}
	values := make(map[Key]string, len(raw))
	for name, v := range raw {
		// Stored rows for keys this build does not know are ignored.
		if k, ok := Lookup(name); ok {
			values[k] = v
		}
	}
	s.values = values
	s.loadedAt = now
	s.loaded = true
	return values, nil
}

func (s *Store) typed(ctx context.Context, key Key, kind Kind) (string, error) {
	def, err := key.definition()
	if err != nil {
		return "", err
	}
	if def.kind != kind {
		return "", fmt.Errorf("%w: %s is %s, not %s", domain.ErrInvalidParameterValue, key, def.kind, kind)
	}
	raw, err := s.Raw(ctx, key)
	if err != nil {
		return "", err
	}
	if err := key.Validate(raw); err != nil {
		return "", err
	}
	return raw, nil
}

// Bool implements Provider.
func (s *Store) Bool(ctx context.Context, key Key) (bool, error) {
	raw, err := s.typed(ctx, key, KindBool)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(raw)
}

// Int implements Provider.
func (s *Store) Int(ctx context.Context, key Key) (int, error) {
	raw, err := s.typed(ctx, key, KindInt)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}

// String implements Provider.
func (s *Store) String(ctx context.Context, key Key) (string, error) {
	return s.typed(ctx, key, KindString)
}

// Date implements Provider.
func (s *Store) Date(ctx context.Context, key Key) (time.Time, error) {
	raw, err := s.typed(ctx, key, KindDate)
	if err != nil {
		return time.Time{}, err
	}
	return dates.Parse(raw)
}
