package places

// SelectRoutable keeps the results that carry both coordinates, in their original
// order, and truncates them to limit (DefaultRouteCap when limit <= 0). The first
// selected candidate is the route origin.
//
// Fewer than two routable results yield an empty selection and ErrTooFewCandidates.
func SelectRoutable(results []Candidate, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = DefaultRouteCap
	}

	selected := make([]Candidate, 0, min(limit, len(results)))
	for _, c := range results {
		if len(selected) == limit {
			break
		}
		if c.Routable() {
			selected = append(selected, c)
		}
	}

	if len(selected) < 2 {
		return []Candidate{}, ErrTooFewCandidates
	}
	return selected, nil
}
