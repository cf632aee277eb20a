package storage

import (
	"context"
	"fmt"
	"sync"
)

// Handle opens a provider once and shares it for the life of the process.
type Handle struct {
	target string
	create bool

	once     sync.Once
	provider Provider
	err      error
}

// NewHandle returns a handle for target. When create is set the provider is
// initialised (created and migrated) instead of loaded.
func NewHandle(target string, create bool) *Handle {
	return &Handle{target: target, create: create}
}

// NewHandleFor wraps an already constructed provider.
func NewHandleFor(p Provider, create bool) *Handle {
	return &Handle{target: p.GetConfigPath(), create: create, provider: p}
}

// Get opens the provider on first use. Later calls return the same provider
// or the same error.
func (h *Handle) Get(ctx context.Context) (Provider, error) {
	h.once.Do(func() {
		p := h.provider
		if p == nil {
			p = Open(h.target)
		}
		if h.create {
			h.err = p.Init(ctx)
		} else {
			h.err = p.Load(ctx)
		}
		if h.err != nil {
			h.err = fmt.Errorf("failed to open storage at %s: %w", p.GetConfigPath(), h.err)
			_ = p.Close()
			return
		}
		h.provider = p
	})
	if h.err != nil {
		return nil, h.err
	}
	return h.provider, nil
}

// Close releases the provider if it was opened.
func (h *Handle) Close() error {
	if h.provider == nil || h.err != nil {
		return nil
	}
	return h.provider.Close()
}
