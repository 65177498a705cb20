package storage

import (
	"context"

	"github.com/okian/logquest/pkg/metrics"
)

// instrumented counts every call on the wrapped store.
type instrumented struct {
	backend string
	next    Store
}

// Instrument wraps s so each operation is recorded under the backend label.
func Instrument(backend string, s Store) Store {
	return &instrumented{backend: backend, next: s}
}

func (i *instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := i.next.Get(ctx, key)
	metrics.RecordStorageOperation(i.backend, metrics.OpGet, err)
	return v, ok, err
}

func (i *instrumented) Set(ctx context.Context, key, value string) error {
	err := i.next.Set(ctx, key, value)
	metrics.RecordStorageOperation(i.backend, metrics.OpSet, err)
	return err
}

func (i *instrumented) Remove(ctx context.Context, key string) error {
	err := i.next.Remove(ctx, key)
	metrics.RecordStorageOperation(i.backend, metrics.OpRemove, err)
	return err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
