package tokenizer

import (
	"fmt"
	"unicode/utf8"
)

// EstimatorTokenizer is a character-count-based token estimator. It
// distinguishes CJK and ASCII characters for better accuracy than a naive
// len/4 approach.
type EstimatorTokenizer struct {
	model string
}

// NewEstimatorTokenizer creates a generic estimator for the model.
func NewEstimatorTokenizer(model string) *EstimatorTokenizer {
	return &EstimatorTokenizer{model: model}
}

func (e *EstimatorTokenizer) CountTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	totalChars := utf8.RuneCountInString(text)
	cjkCount := 0
	for _, r := range text {
		if isCJK(r) {
			cjkCount++
		}
	}

	// CJK characters ~1.5 chars/token, ASCII ~4 chars/token.
	estimated := int(float64(cjkCount)/1.5 + float64(totalChars-cjkCount)/4.0)
	if estimated == 0 {
		estimated = 1
	}
	return estimated, nil
}

// Encode is not supported by the estimator; Clamp falls back to a
// character cut when it fails.
func (e *EstimatorTokenizer) Encode(string) ([]int, error) {
	return nil, fmt.Errorf("estimator tokenizer cannot encode")
}

func (e *EstimatorTokenizer) Decode([]int) (string, error) {
	return "", fmt.Errorf("estimator tokenizer cannot decode")
}

func (e *EstimatorTokenizer) Name() string {
	return fmt.Sprintf("estimator-%s", e.model)
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK Unified Ideographs
		(r >= 0x3400 && r <= 0x4DBF) || // Extension A
		(r >= 0x3040 && r <= 0x30FF) || // Hiragana + Katakana
		(r >= 0xAC00 && r <= 0xD7AF) // Hangul
}
