package evaluator

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/sandrolain/goxq/pkg/storage"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// EvalMany evaluates independent expressions against the same database and returns the results
// in input order. With Concurrency enabled the expressions run on a bounded worker pool. The
// first error cancels the remaining evaluations and is returned.
func (e *Evaluator) EvalMany(ctx context.Context, exprs []*types.Expression, data storage.Data) ([]value.Value, error) {
	results := make([]value.Value, len(exprs))
	if !e.opts.Concurrency || len(exprs) < 2 {
		for i, expr := range exprs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			v, err := e.Eval(ctx, expr, data)
			if err != nil {
				return nil, err
			}
			results[i] = v
		}
		return results, nil
	}

	workers := e.opts.Workers
	if workers <= 0 || workers > len(exprs) {
		workers = len(exprs)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	pool, err := ants.NewPoolWithFunc(workers, func(arg any) {
		defer wg.Done()
		defer func() {
			if p := recover(); p != nil {
				e.logger.Error("query evaluation panic", "panic", p)
				fail(types.Errorf(types.ErrInternal, -1, "query evaluation panic: %v", p))
			}
		}()
		i := arg.(int)
		if err := ctx.Err(); err != nil {
			fail(err)
			return
		}
		v, err := e.Eval(ctx, exprs[i], data)
		if err != nil {
			fail(err)
			return
		}
		results[i] = v
	})
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	for i := range exprs {
		wg.Add(1)
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
