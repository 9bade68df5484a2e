package match

import (
	"github.com/agenthands/parity/internal/core/model"
)

// Matcher pairs elements between two independently captured, possibly
// differently ordered element lists. It holds no state between calls;
// all "used" bookkeeping lives inside Match so concurrent invocations
// never interfere.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match runs two greedy, order-preserving passes:
//
//  1. Selector pass: each live element, in document order, claims the
//     first unused stage element with an identical selector.
//  2. Positional fallback: each still-unmatched live element at index i
//     claims the stage element at index i, if that one is still unused.
//
// Elements unmatched after both passes are dropped from pairwise
// diffing (the systemic auditor still sees them via the raw lists).
//
// Known limitation, kept as observed behavior: repeated identical
// selectors (card grids etc.) are consumed in document order, which can
// mis-pair visually equivalent siblings. Likewise a structural
// insertion in one environment shifts every later index, so the
// positional pass can mis-pair everything downstream of it.
func (m *Matcher) Match(live, stage []model.ElementSnapshot) []model.MatchedPair {
	usedStage := make([]bool, len(stage))
	matchedLive := make([]bool, len(live))

	pairs := make([]model.MatchedPair, 0, min(len(live), len(stage)))

	// Pass 1: selector identity.
	for i, le := range live {
		for j, se := range stage {
			if usedStage[j] || se.Selector != le.Selector {
				continue
			}
			pairs = append(pairs, model.MatchedPair{
				Live:      le,
				Stage:     se,
				MatchType: model.MatchSelector,
			})
			usedStage[j] = true
			matchedLive[i] = true
			break
		}
	}

	// Pass 2: same-index fallback for the leftovers.
	for i, le := range live {
		if matchedLive[i] {
			continue
		}
		if i >= len(stage) || usedStage[i] {
			continue
		}
		pairs = append(pairs, model.MatchedPair{
			Live:      le,
			Stage:     stage[i],
			MatchType: model.MatchIndex,
		})
		usedStage[i] = true
		matchedLive[i] = true
	}

	return pairs
}
