package strategy

import (
	"math"

	"golang.org/x/exp/slices"
)

// RankingWeights blends the four normalized metrics into one composite
// leaderboard score.
type RankingWeights struct {
	Efficiency  float64 `json:"efficiency"`
	Consistency float64 `json:"consistency"`
	HighestTile float64 `json:"highest_tile"`
	Improvement float64 `json:"improvement"`
}

// DefaultRankingWeights favors raw efficiency, then stability.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		Efficiency:  0.4,
		Consistency: 0.3,
		HighestTile: 0.2,
		Improvement: 0.1,
	}
}

// RankedEntry is one leaderboard row. Field names are stable, reports
// downstream parse them.
type RankedEntry struct {
	Rank              int      `json:"rank"`
	AlgorithmID       string   `json:"algorithm_id"`
	AlgorithmName     string   `json:"algorithm_name"`
	Category          Category `json:"category"`
	GamesPlayed       int      `json:"games_played"`
	AverageEfficiency float64  `json:"average_efficiency"`
	HighestTile       int      `json:"highest_tile"`
	ConsistencyScore  float64  `json:"consistency_score"`
	ImprovementRate   float64  `json:"improvement_rate"`
	CompositeScore    float64  `json:"composite_score"`
	Percentile        float64  `json:"percentile"`
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

func stddev(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var s float64
	for _, x := range xs {
		d := x - m
		s += d * d
	}
	return math.Sqrt(s / float64(len(xs)))
}

// slope fits a least-squares line over the sequence and returns its
// gradient, the improvement rate across the history.
func slope(ys []float64) float64 {
	n := float64(len(ys))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// normalize maps values onto [0,1] by min-max. All-equal inputs map to
// flat, which keeps a lone metric from deciding the ranking.
func normalize(values []float64, flat float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	min, max := values[0], values[0]
	for _, v := range values {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if max == min {
		for i := range out {
			out[i] = flat
		}
		return out
	}
	for i, v := range values {
		out[i] = (v - min) / (max - min)
	}
	return out
}

// Rank orders every strategy with recorded games by the weighted
// composite of normalized efficiency, consistency, log-scaled highest
// tile and improvement slope. The order is total: ties keep
// registration order.
func (r *Registry) Rank(w RankingWeights) []RankedEntry {
	var entries []RankedEntry
	var effs, cons, tiles, imps []float64

	for _, id := range r.order {
		history := r.history[id]
		if len(history) == 0 {
			continue
		}
		meta := r.entries[id].meta

		perGame := make([]float64, len(history))
		games := 0
		highest := 0
		for i, g := range history {
			perGame[i] = g.Efficiency()
			games++
			if g.HighestTile > highest {
				highest = g.HighestTile
			}
		}
		avg := mean(perGame)
		// Consistency is one minus the coefficient of variation,
		// clamped to [0,1].
		consistency := 1.0
		if len(perGame) > 1 {
			consistency = 1 - stddev(perGame, avg)/math.Max(avg, 0.1)
			consistency = math.Max(0, math.Min(1, consistency))
		}
		improvement := slope(perGame)

		entries = append(entries, RankedEntry{
			AlgorithmID:       id,
			AlgorithmName:     meta.Name,
			Category:          meta.Category,
			GamesPlayed:       games,
			AverageEfficiency: avg,
			HighestTile:       highest,
			ConsistencyScore:  consistency,
			ImprovementRate:   improvement,
		})
		effs = append(effs, avg)
		cons = append(cons, consistency)
		tiles = append(tiles, math.Log2(math.Max(float64(highest), 1)))
		imps = append(imps, improvement)
	}

	normEff := normalize(effs, 1)
	normCons := normalize(cons, 1)
	normTiles := normalize(tiles, 1)
	normImps := normalize(imps, 0.5)
	for i := range entries {
		entries[i].CompositeScore = normEff[i]*w.Efficiency +
			normCons[i]*w.Consistency +
			normTiles[i]*w.HighestTile +
			normImps[i]*w.Improvement
	}

	// Stable sort keeps registration order for equal composites.
	slices.SortStableFunc(entries, func(a, b RankedEntry) int {
		switch {
		case a.CompositeScore > b.CompositeScore:
			return -1
		case a.CompositeScore < b.CompositeScore:
			return 1
		}
		return 0
	})

	n := len(entries)
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Percentile = float64(n-i) / float64(n) * 100
	}
	return entries
}
