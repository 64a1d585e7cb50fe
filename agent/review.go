package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/pipeline"
)

// ReviewStage critiques the drafted answer. An empty or failed draft
// short-circuits with the no-answer feedback sentinel; the draft itself is
// always carried forward as reviewed_answer.
type ReviewStage struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewReviewStage creates the review stage.
func NewReviewStage(completer llm.Completer, logger *zap.Logger) *ReviewStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewStage{
		completer: completer,
		logger:    logger.With(zap.String("stage", StageReview)),
	}
}

func (s *ReviewStage) Name() string { return StageReview }

func (s *ReviewStage) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	answer := state.String(KeyAnswer)
	if answer == "" || strings.Contains(answer, draftFailureMarker) {
		s.logger.Warn("no answer to review, skipping")
		return pipeline.State{
			KeyReviewedAnswer: answer,
			KeyFeedback:       NoAnswerFeedback,
		}, nil
	}

	feedback, err := s.completer.Complete(ctx, systemReviewer, reviewPrompt(answer))
	if err != nil {
		s.logger.Warn("review failed", zap.Error(err))
		return pipeline.State{
			KeyReviewedAnswer: answer,
			KeyFeedback:       ReviewFailedFeedback,
			KeyError:          err.Error(),
		}, nil
	}

	s.logger.Info("review completed", zap.Int("feedback_len", len(feedback)))
	return pipeline.State{
		KeyReviewedAnswer: answer,
		KeyFeedback:       feedback,
	}, nil
}
