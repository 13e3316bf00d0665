package score

import (
	"sort"

	"github.com/tripweave/tripweave/internal/itinerary"
)

// Ranked pairs an itinerary with the score it was ranked under.
type Ranked struct {
	Itinerary *itinerary.Itinerary
	Score     float64
}

// Result holds the overall shortlist plus the per-mode leaderboards, each
// sorted descending by score.
type Result struct {
	Best    []Ranked
	Walking []Ranked
	Public  []Ranked
	Driving []Ranked
}

// Rank scores every candidate against one shared bound built from the full
// input list, sorts descending by score, takes the top three overall and
// partitions the sorted list by mode.
//
// The sort is stable: candidates with equal scores keep their input order,
// so the top-three shortlist is reproducible under ties. A single-candidate
// input degenerates every dimension, so it still scores deterministically.
func Rank(itineraries []*itinerary.Itinerary, pref Preference) (*Result, error) {
	bound := NewBound(itineraries)

	ranked := make([]Ranked, 0, len(itineraries))
	for _, it := range itineraries {
		s, err := Compute(it, bound, pref)
		if err != nil {
			return nil, err
		}
		it.Score = s
		ranked = append(ranked, Ranked{Itinerary: it, Score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	result := &Result{}
	best := len(ranked)
	if best > 3 {
		best = 3
	}
	result.Best = ranked[:best]

	for _, r := range ranked {
		switch r.Itinerary.Mode {
		case itinerary.ModeWalking:
			result.Walking = append(result.Walking, r)
		case itinerary.ModePublic:
			result.Public = append(result.Public, r)
		case itinerary.ModeDriving:
			result.Driving = append(result.Driving, r)
		}
	}

	return result, nil
}
