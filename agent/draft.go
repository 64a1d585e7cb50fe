package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/llm/tokenizer"
	"github.com/BaSui01/researchflow/pipeline"
)

// defaultContextBudget caps the rendered research context embedded in the
// draft prompt, leaving headroom for instructions and the completion.
const defaultContextBudget = 6000

// DraftStage turns research data into a drafted answer. Without research
// data it short-circuits to the no-data sentinel and never calls the
// generation adapter.
type DraftStage struct {
	completer     llm.Completer
	tok           tokenizer.Tokenizer
	contextBudget int
	logger        *zap.Logger
}

// NewDraftStage creates the drafting stage. tok may be nil, in which case
// an estimator for the default model is used; contextBudget <= 0 selects
// the default budget.
func NewDraftStage(completer llm.Completer, tok tokenizer.Tokenizer, contextBudget int, logger *zap.Logger) *DraftStage {
	if tok == nil {
		tok = tokenizer.NewEstimatorTokenizer("default")
	}
	if contextBudget <= 0 {
		contextBudget = defaultContextBudget
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftStage{
		completer:     completer,
		tok:           tok,
		contextBudget: contextBudget,
		logger:        logger.With(zap.String("stage", StageDraft)),
	}
}

func (s *DraftStage) Name() string { return StageDraft }

func (s *DraftStage) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	researchData, ok := state[KeyResearchData]
	if !ok || isNilResearch(researchData) {
		s.logger.Warn("no research data, skipping draft")
		return pipeline.State{KeyAnswer: NoResearchDataAnswer}, nil
	}

	rendered := tokenizer.Clamp(s.tok, renderResearch(researchData), s.contextBudget)

	answer, err := s.completer.Complete(ctx, systemResearchAssistant, draftPrompt(rendered))
	if err != nil {
		s.logger.Warn("draft failed", zap.Error(err))
		return pipeline.State{
			KeyAnswer: DraftFailedAnswer,
			KeyError:  err.Error(),
		}, nil
	}

	s.logger.Info("draft completed", zap.Int("answer_len", len(answer)))
	return pipeline.State{KeyAnswer: answer}, nil
}
