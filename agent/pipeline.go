package agent

import (
	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/llm/tokenizer"
	"github.com/BaSui01/researchflow/pipeline"
)

// Options tunes the assembled research pipeline.
type Options struct {
	// Tokenizer used to clamp research context in the draft prompt.
	Tokenizer tokenizer.Tokenizer
	// ContextBudget is the max tokens of research context; 0 = default.
	ContextBudget int
	// Logger is shared by the chain and all stages.
	Logger *zap.Logger
	// Observer receives per-stage and per-run execution events.
	Observer pipeline.Observer
}

// NewResearchPipeline assembles the fixed research → draft → review →
// refine chain around the given adapters and compiles it. The returned
// chain is stateless; callers start a run with an initial state of
// {query: <text>} and read final_answer from the result.
func NewResearchPipeline(searcher Searcher, completer llm.Completer, opts Options) (*pipeline.Chain, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return pipeline.NewBuilder("research").
		WithLogger(logger).
		WithObserver(opts.Observer).
		AddStage(NewResearchStage(searcher, logger)).
		AddStage(NewDraftStage(completer, opts.Tokenizer, opts.ContextBudget, logger)).
		AddStage(NewReviewStage(completer, logger)).
		AddStage(NewRefineStage(completer, logger)).
		AddEdge(StageResearch, StageDraft).
		AddEdge(StageDraft, StageReview).
		AddEdge(StageReview, StageRefine).
		SetEntry(StageResearch).
		SetFinish(StageRefine).
		Build()
}
