package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/pipeline"
)

// RefineStage revises the reviewed answer against the feedback. Missing or
// failed feedback short-circuits with the reviewed answer as final_answer,
// and a refinement failure likewise falls back to the reviewed answer, so
// the finish field is populated under every upstream outcome.
type RefineStage struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewRefineStage creates the refinement stage.
func NewRefineStage(completer llm.Completer, logger *zap.Logger) *RefineStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefineStage{
		completer: completer,
		logger:    logger.With(zap.String("stage", StageRefine)),
	}
}

func (s *RefineStage) Name() string { return StageRefine }

func (s *RefineStage) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	answer := state.String(KeyReviewedAnswer)
	feedback := state.String(KeyFeedback)

	if feedback == "" || strings.Contains(feedback, reviewFailureMarker) {
		s.logger.Warn("no feedback to apply, skipping refinement")
		return pipeline.State{KeyFinalAnswer: answer}, nil
	}

	refined, err := s.completer.Complete(ctx, systemRefiner, refinePrompt(answer, feedback))
	if err != nil {
		s.logger.Warn("refinement failed", zap.Error(err))
		return pipeline.State{
			KeyFinalAnswer: answer,
			KeyError:       err.Error(),
		}, nil
	}

	s.logger.Info("refinement completed", zap.Int("answer_len", len(refined)))
	return pipeline.State{KeyFinalAnswer: refined}, nil
}
