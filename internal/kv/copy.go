// ABOUTME: Copies slots between backends for migrating stored data.
// ABOUTME: Keys absent from the source are removed from the destination.
package kv

import (
	"context"
	"fmt"
)

// CopySummary reports the outcome of Copy.
type CopySummary struct {
	Copied  []string
	Skipped []string
}

// Copy makes each key in dst match src. Keys absent from src are removed
// from dst. When dst is Transactional all keys are committed together.
func Copy(ctx context.Context, src, dst Backend, keys []string) (*CopySummary, error) {
	summary := &CopySummary{}
	values := make(map[string]string, len(keys))

	for _, k := range keys {
		v, ok, err := src.Get(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("read source %s: %w", k, err)
		}
		if !ok {
			summary.Skipped = append(summary.Skipped, k)
			continue
		}
		values[k] = v
		summary.Copied = append(summary.Copied, k)
	}

	if tx, ok := dst.(Transactional); ok {
		err := tx.Update(ctx, func(w Writer) error {
			for _, k := range summary.Copied {
				if err := w.Set(k, values[k]); err != nil {
					return err
				}
			}
			if len(summary.Skipped) == 0 {
				return nil
			}
			return w.Remove(summary.Skipped...)
		})
		if err != nil {
			return nil, fmt.Errorf("write destination: %w", err)
		}
		return summary, nil
	}

	for _, k := range summary.Copied {
		if err := dst.Set(ctx, k, values[k]); err != nil {
			return nil, fmt.Errorf("write destination %s: %w", k, err)
		}
	}
	if len(summary.Skipped) > 0 {
		if err := dst.RemoveMany(ctx, summary.Skipped...); err != nil {
			return nil, fmt.Errorf("clear destination: %w", err)
		}
	}
	return summary, nil
}
