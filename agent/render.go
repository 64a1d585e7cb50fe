package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BaSui01/researchflow/search"
)

// isNilResearch reports whether the research_data value is absent for
// drafting purposes: a plain nil, a typed nil *search.Response, or a
// response with no results and no answer.
func isNilResearch(v any) bool {
	if v == nil {
		return true
	}
	if resp, ok := v.(*search.Response); ok {
		return resp == nil || (len(resp.Results) == 0 && resp.Answer == "")
	}
	return false
}

// renderResearch formats the research_data value for prompt embedding.
// Typed search responses render as a numbered source list; anything else
// falls back to JSON, then to plain formatting.
func renderResearch(v any) string {
	switch data := v.(type) {
	case *search.Response:
		var b strings.Builder
		if data.Answer != "" {
			b.WriteString("Summary: ")
			b.WriteString(data.Answer)
			b.WriteString("\n\n")
		}
		for i, r := range data.Results {
			fmt.Fprintf(&b, "[%d] %s (%s)\n%s\n\n", i+1, r.Title, r.URL, r.Content)
		}
		return strings.TrimRight(b.String(), "\n")
	case string:
		return data
	default:
		if raw, err := json.Marshal(v); err == nil {
			return string(raw)
		}
		return fmt.Sprintf("%v", v)
	}
}
