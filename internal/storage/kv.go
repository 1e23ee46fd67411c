// Package storage provides the key-value persistence capability the assistant
// uses for its task collection and user context.
package storage

import "context"

// KV is an opaque string store. A missing key is reported with ok=false and
// a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete removes a key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Prefixed namespaces every key of an underlying store, e.g. per user.
type Prefixed struct {
	kv     KV
	prefix string
}

func WithPrefix(kv KV, prefix string) *Prefixed {
	return &Prefixed{kv: kv, prefix: prefix}
}

func (p *Prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.kv.Get(ctx, p.prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key, value string) error {
	return p.kv.Set(ctx, p.prefix+key, value)
}

func (p *Prefixed) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, p.prefix+key)
}
