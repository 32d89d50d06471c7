package evidence

import "github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/methods"

// RawScore derives the single raw score the Calibration Policy
// consumes from one question's assembled evidence: the mean of the
// graph's node confidences. Contradiction edges push individual node
// confidences down during belief propagation, so the mean already
// reflects any detected inconsistency.
func (r *Result) RawScore() float64 {
	if len(r.Assembled.ConfidenceScores) == 0 {
		return 0
	}
	var sum float64
	for _, c := range r.Assembled.ConfidenceScores {
		sum += c
	}
	return sum / float64(len(r.Assembled.ConfidenceScores))
}

// RawOutput returns the first graph node value implementing
// methods.Calibrable, letting the Calibration Policy delegate to a
// method's own calibration when one of the methods that contributed to
// this question exposes it, instead of the central fallback. Nodes
// are scanned in graph order, which is ascending node ID, so the
// Calibrable producer with the lowest ID wins deterministically.
func (r *Result) RawOutput() any {
	for _, n := range r.Graph.Nodes {
		if _, ok := n.Value.(methods.Calibrable); ok {
			return n.Value
		}
	}
	return nil
}
