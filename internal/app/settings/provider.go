package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"petquest/internal/app/ports"

	"github.com/shopspring/decimal"
)

type cachedValue struct {
	value string
	ok    bool
}

// Provider serves typed settings from a key/value store with a read-through
// cache. Writers call Set or Invalidate; nothing else evicts entries.
type Provider struct {
	repo  ports.SettingsRepository
	mu    sync.RWMutex
	cache map[string]cachedValue
	// gen advances on every invalidation; a read that straddles one is not cached.
	gen uint64
}

func NewProvider(repo ports.SettingsRepository) *Provider {
	return &Provider{repo: repo, cache: map[string]cachedValue{}}
}

func (p *Provider) raw(ctx context.Context, key string) (string, bool, error) {
	p.mu.RLock()
	c, hit := p.cache[key]
	gen := p.gen
	p.mu.RUnlock()
	if hit {
		return c.value, c.ok, nil
	}
	if p.repo == nil {
		return "", false, nil
	}
	v, ok, err := p.repo.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read setting %s: %w", key, err)
	}
	v = strings.TrimSpace(v)
	p.mu.Lock()
	if p.gen == gen {
		p.cache[key] = cachedValue{value: v, ok: ok && v != ""}
	}
	p.mu.Unlock()
	return v, ok && v != "", nil
}

func (p *Provider) Int(ctx context.Context, key string, fallback int) (int, error) {
	v, ok, err := p.raw(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	n, convErr := strconv.Atoi(v)
	if convErr != nil {
		return fallback, nil
	}
	return n, nil
}

func (p *Provider) Bool(ctx context.Context, key string, fallback bool) (bool, error) {
	v, ok, err := p.raw(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	b, convErr := strconv.ParseBool(v)
	if convErr != nil {
		return fallback, nil
	}
	return b, nil
}

func (p *Provider) String(ctx context.Context, key string, fallback string) (string, error) {
	v, ok, err := p.raw(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	return v, nil
}

func (p *Provider) Decimal(ctx context.Context, key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	v, ok, err := p.raw(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	d, convErr := decimal.NewFromString(v)
	if convErr != nil {
		return fallback, nil
	}
	return d, nil
}

// JSON decodes the value into out. A missing or malformed value reports false.
func (p *Provider) JSON(ctx context.Context, key string, out any) (bool, error) {
	v, ok, err := p.raw(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(v), out); err != nil {
		return false, nil
	}
	return true, nil
}

func (p *Provider) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrInvalidKey
	}
	if p.repo == nil {
		return ErrNoStore
	}
	if err := p.repo.Set(ctx, key, value); err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	p.Invalidate(key)
	return nil
}

func (p *Provider) Invalidate(key string) {
	p.mu.Lock()
	delete(p.cache, key)
	p.gen++
	p.mu.Unlock()
}

func (p *Provider) InvalidateAll() {
	p.mu.Lock()
	p.cache = map[string]cachedValue{}
	p.gen++
	p.mu.Unlock()
}
