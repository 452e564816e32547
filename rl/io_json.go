package rl

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Persistence errors, distinguishable with errors.Is so callers can
// fall back to an untrained strategy when the model is simply absent.
var (
	ErrModelMissing = errors.New("model file missing")
	ErrModelCorrupt = errors.New("model file corrupt")
)

type modelJSON struct {
	Config   QConfig               `json:"config"`
	Epsilon  float64               `json:"epsilon"`
	Episodes int                   `json:"episodes"`
	Trained  bool                  `json:"trained"`
	Table    map[string][4]float64 `json:"q_table"`
}

// Save writes the full learner state, table included, as one JSON
// document. A temp file plus rename keeps the previous model intact if
// the write dies halfway.
func (q *QLearner) Save(path string) error {
	payload := modelJSON{
		Config:   q.cfg,
		Epsilon:  q.epsilon,
		Episodes: q.episodes,
		Trained:  q.trained,
		Table:    q.table,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding model")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	return errors.Wrapf(os.Rename(tmp, path), "renaming %s", tmp)
}

// Load replaces the learner state with a saved model. States absent
// from the table keep reading as all-zero action values.
func (q *QLearner) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(ErrModelMissing, path)
		}
		return errors.Wrapf(err, "reading %s", path)
	}
	var payload modelJSON
	if err := json.Unmarshal(b, &payload); err != nil {
		return errors.Wrapf(ErrModelCorrupt, "%s: %v", path, err)
	}
	q.cfg = payload.Config
	q.epsilon = payload.Epsilon
	q.episodes = payload.Episodes
	q.trained = payload.Trained
	q.table = payload.Table
	if q.table == nil {
		q.table = make(map[string][4]float64)
	}
	return nil
}
