package opportunities

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// stageCountLimit caps each per-stage search. Stages holding more than this
// many open opportunities undercount; the platform offers no cheaper
// aggregate.
const stageCountLimit = 100

type countOptions struct {
	concurrency int
}

// CountOption adjusts a GetPipelineWithCounts call.
type CountOption func(*countOptions)

// WithStageConcurrency lets up to n per-stage searches run at once. The
// default is strictly sequential, one call per stage, which callers rely on
// for its ordering and pacing; concurrency is opt-in only.
func WithStageConcurrency(n int) CountOption {
	return func(o *countOptions) {
		if n > 1 {
			o.concurrency = n
		}
	}
}

// GetPipelineWithCounts aggregates open-opportunity count and monetary value
// for every stage of a pipeline. One filtered search is issued per stage;
// stages with nothing open still appear with zero count and value.
func (s *Service) GetPipelineWithCounts(ctx context.Context, pipelineID string, opts ...CountOption) (*PipelineCounts, error) {
	options := countOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	pipeline, err := s.GetPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	counts := &PipelineCounts{
		Pipeline:   *pipeline,
		Stages:     make([]StageCount, len(pipeline.Stages)),
		TotalValue: decimal.Zero,
	}

	if options.concurrency > 1 {
		if err := s.countStagesConcurrent(ctx, pipelineID, pipeline.Stages, counts.Stages, options.concurrency); err != nil {
			return nil, err
		}
	} else {
		for i, stage := range pipeline.Stages {
			sc, err := s.countStage(ctx, pipelineID, stage)
			if err != nil {
				return nil, err
			}
			counts.Stages[i] = sc
		}
	}

	for _, sc := range counts.Stages {
		counts.TotalCount += sc.Count
		counts.TotalValue = counts.TotalValue.Add(sc.MonetaryValue)
	}
	return counts, nil
}

func (s *Service) countStage(ctx context.Context, pipelineID string, stage Stage) (StageCount, error) {
	result, err := s.Search(ctx, SearchParams{
		PipelineID: pipelineID,
		StageID:    stage.ID,
		Status:     StatusOpen,
		Limit:      stageCountLimit,
	})
	if err != nil {
		return StageCount{}, fmt.Errorf("count stage %s: %w", stage.ID, err)
	}

	sc := StageCount{
		StageID:       stage.ID,
		StageName:     stage.Name,
		Count:         len(result.Opportunities),
		MonetaryValue: decimal.Zero,
	}
	for _, opp := range result.Opportunities {
		sc.MonetaryValue = sc.MonetaryValue.Add(opp.MonetaryValue)
	}
	return sc, nil
}

// countStagesConcurrent writes each stage's result into its own slot, so the
// output order matches the pipeline's stage order regardless of completion
// order.
func (s *Service) countStagesConcurrent(ctx context.Context, pipelineID string, stages []Stage, out []StageCount, limit int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, stage := range stages {
		g.Go(func() error {
			sc, err := s.countStage(gctx, pipelineID, stage)
			if err != nil {
				return err
			}
			out[i] = sc
			return nil
		})
	}
	return g.Wait()
}
