package pipeline

// State is the mutable record threaded through a pipeline run. Keys are
// field names, values are whatever the producing stage put there; no type
// checking is performed and consumers are responsible for interpretation.
type State map[string]any

// ErrorKey is the conventional field under which stages record the message
// of an in-band failure. The runner treats a merged partial containing this
// key as a degraded (but still successful) stage execution.
const ErrorKey = "error"

// Merge returns a new State containing every key of cur, overwritten or
// extended by every key of partial. Neither input is modified. Merge is
// total: a nil or empty partial yields a plain copy of cur.
func Merge(cur, partial State) State {
	merged := make(State, len(cur)+len(partial))
	for k, v := range cur {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	return merged
}

// Clone returns a shallow copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Has reports whether the key is present, regardless of its value.
func (s State) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// String returns the value under key if it is a string, or "" otherwise.
// A missing key, a nil value, and a non-string value all read as "".
func (s State) String(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}
