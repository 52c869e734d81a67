// Package settle runs independent units of work and waits for every outcome.
// A failing unit never cancels or blocks its siblings.
package settle

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one unit.
type Outcome[T any] struct {
	Item T
	Err  error
}

func (o Outcome[T]) OK() bool { return o.Err == nil }

// All calls fn once per item with at most limit calls in flight (limit <= 0
// means unbounded) and returns the outcomes in input order. A panic in fn is
// recorded as that item's error.
func All[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) []Outcome[T] {
	outcomes := make([]Outcome[T], len(items))
	if len(items) == 0 {
		return outcomes
	}

	// plain Group, not WithContext: one failure must not cancel the rest
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			outcomes[i] = Outcome[T]{Item: item, Err: run(ctx, item, fn)}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func run[T any](ctx context.Context, item T, fn func(context.Context, T) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, item)
}

// Succeeded counts the outcomes without error.
func Succeeded[T any](outcomes []Outcome[T]) int {
	n := 0
	for _, o := range outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Errors combines every failure into one error, nil if all succeeded.
func Errors[T any](outcomes []Outcome[T]) error {
	var err error
	for _, o := range outcomes {
		if o.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%v: %w", o.Item, o.Err))
		}
	}
	return err
}
