package strategy

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

// Report is the full serialized state of the registry: the current
// leaderboard plus every retained game record, for reporting tools.
type Report struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Weights     RankingWeights          `json:"ranking_weights"`
	Leaderboard []RankedEntry           `json:"leaderboard"`
	History     map[string][]GameResult `json:"history"`
}

// Report builds the export document for the current histories.
func (r *Registry) Report(w RankingWeights) *Report {
	return &Report{
		GeneratedAt: time.Now().UTC(),
		Weights:     w,
		Leaderboard: r.Rank(w),
		History:     maps.Clone(r.history),
	}
}

// WriteReport serializes the report to path, writing a temp file first
// so a crash never leaves a truncated report behind.
func (r *Registry) WriteReport(path string, w RankingWeights) error {
	b, err := json.MarshalIndent(r.Report(w), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	return errors.Wrapf(os.Rename(tmp, path), "renaming %s", tmp)
}
