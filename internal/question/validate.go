package question

// Usable reports whether a fetched record carries everything a session needs.
// Records missing an id, prompt, or answer, or offering fewer than three
// options, are dropped before the batch reaches a session.
func Usable(q Question) bool {
	if q.ID == "" || q.Prompt == "" || q.Answer == "" {
		return false
	}
	if len(q.Options) < minOptions {
		return false
	}
	return true
}

// FilterUsable returns the subset of qs that pass Usable, preserving order.
func FilterUsable(qs []Question) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if Usable(q) {
			out = append(out, q)
		}
	}
	return out
}
