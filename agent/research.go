package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/pipeline"
)

// ResearchStage fetches web research data for the query. On adapter
// failure it records a nil research_data plus the error message, letting
// the draft stage short-circuit instead of cascading the failure.
type ResearchStage struct {
	searcher Searcher
	logger   *zap.Logger
}

// NewResearchStage creates the research stage.
func NewResearchStage(searcher Searcher, logger *zap.Logger) *ResearchStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResearchStage{
		searcher: searcher,
		logger:   logger.With(zap.String("stage", StageResearch)),
	}
}

func (s *ResearchStage) Name() string { return StageResearch }

func (s *ResearchStage) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	query := state.String(KeyQuery)

	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Warn("research failed", zap.Error(err))
		return pipeline.State{
			KeyResearchData: nil,
			KeyError:        err.Error(),
		}, nil
	}

	s.logger.Info("research completed", zap.Int("results", len(results.Results)))
	return pipeline.State{KeyResearchData: results}, nil
}
