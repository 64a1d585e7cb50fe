// Package agent wires the four research pipeline stages: research, answer
// drafting, review, and refinement. Each stage reads fields of the shared
// pipeline.State, delegates to an external adapter, and merges its output
// back in; adapter failures are encoded in-band so the chain always
// completes and final_answer is always populated.
package agent

import (
	"context"

	"github.com/BaSui01/researchflow/pipeline"
	"github.com/BaSui01/researchflow/search"
)

// State record field names used across the chain. A stage only reads keys
// produced by earlier stages.
const (
	KeyQuery          = "query"
	KeyResearchData   = "research_data"
	KeyError          = pipeline.ErrorKey
	KeyAnswer         = "answer"
	KeyReviewedAnswer = "reviewed_answer"
	KeyFeedback       = "feedback"
	KeyFinalAnswer    = "final_answer"
)

// Sentinel values marking "no usable result" so downstream stages can
// detect upstream failure without inspecting error types.
const (
	NoResearchDataAnswer = "No research data available to draft an answer."
	DraftFailedAnswer    = "Failed to draft an answer due to an error."
	NoAnswerFeedback     = "No answer to review."
	ReviewFailedFeedback = "Failed to review the answer due to an error."
)

// Failure sentinels are matched by substring so wrapped or annotated copies
// still short-circuit downstream stages.
const (
	draftFailureMarker  = "Failed to draft"
	reviewFailureMarker = "Failed to review"
)

// Stage names, also the chain's node identifiers.
const (
	StageResearch = "research"
	StageDraft    = "draft_answer"
	StageReview   = "review_answer"
	StageRefine   = "refine_answer"
)

// Searcher is the search adapter surface the research stage depends on.
type Searcher interface {
	Search(ctx context.Context, query string) (*search.Response, error)
}
