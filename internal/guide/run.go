package guide

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"sandpit/internal/capture"
	"sandpit/internal/erase"
	"sandpit/internal/interp"
	"sandpit/internal/session"
)

// BlockResult содержит результат исполнения одного блока гайда.
type BlockResult struct {
	Block  Block
	Result *capture.RunResult
	// Skipped — блок с неисполняемым тегом языка, запуск не делался.
	Skipped bool
}

// RunOptions configures a guide run.
type RunOptions struct {
	// Jobs ограничивает число одновременных запусков; <=0 — GOMAXPROCS.
	Jobs int
	// StepBudget передаётся каждому запуску; 0 — значение по умолчанию.
	StepBudget int
}

// RunAll исполняет все исполняемые блоки гайда параллельно.
// Каждый блок — независимый запуск со своим окружением и транскриптом,
// поэтому порядок исполнения не важен; результаты лежат по индексу блока.
func RunAll(ctx context.Context, g *Guide, opts RunOptions) ([]BlockResult, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]BlockResult, len(g.Blocks))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(min(jobs, max(len(g.Blocks), 1)))

	for i, block := range g.Blocks {
		i, block := i, block
		eg.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// Блок без тега языка — обычно пример вывода, не код.
			if block.Language == "" {
				results[i] = BlockResult{Block: block, Skipped: true}
				return nil
			}
			if _, runnable := erase.RulesetFor(block.Language); !runnable {
				results[i] = BlockResult{Block: block, Skipped: true}
				return nil
			}

			res := session.Execute(gctx, block.Code, block.Language,
				interp.Options{StepBudget: opts.StepBudget})
			results[i] = BlockResult{Block: block, Result: res}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
