package deadcode

// FilterByConfidence returns the findings whose confidence is at least
// threshold, preserving input order. It is a pure filter: no I/O, no side
// effects, and the input slice is never modified.
func FilterByConfidence(findings []Finding, threshold float64) []Finding {
	kept := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.Confidence >= threshold {
			kept = append(kept, f)
		}
	}
	return kept
}
