// Package tokenizer provides token counting and budget clamping for prompt
// construction. A tiktoken-backed implementation covers OpenAI-family
// encodings; a character-ratio estimator serves as the fallback for models
// without a registered encoding.
package tokenizer

// Tokenizer is the unified token counting interface.
type Tokenizer interface {
	// CountTokens returns the token count for the given text.
	CountTokens(text string) (int, error)

	// Encode converts text to a list of token IDs.
	Encode(text string) ([]int, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int) (string, error)

	// Name returns the tokenizer name.
	Name() string
}

// ForModel returns a tiktoken tokenizer when the model has a known
// encoding, or the generic estimator otherwise.
func ForModel(model string) Tokenizer {
	if t, err := NewTiktokenTokenizer(model); err == nil {
		return t
	}
	return NewEstimatorTokenizer(model)
}

// Clamp returns text cut down to at most budget tokens. Texts already
// within budget are returned unchanged. When the tokenizer cannot encode
// (estimators), the cut falls back to a proportional character slice.
func Clamp(t Tokenizer, text string, budget int) string {
	if budget <= 0 || text == "" {
		return ""
	}
	count, err := t.CountTokens(text)
	if err != nil || count <= budget {
		return text
	}

	tokens, err := t.Encode(text)
	if err == nil && len(tokens) > budget {
		if clipped, err := t.Decode(tokens[:budget]); err == nil {
			return clipped
		}
	}

	// Proportional character cut, rune-safe.
	runes := []rune(text)
	keep := len(runes) * budget / count
	if keep <= 0 {
		keep = 1
	}
	if keep >= len(runes) {
		return text
	}
	return string(runes[:keep])
}
