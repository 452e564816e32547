package grid

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/pkg/errors"
)

// Move is one of the four directions a board can be shifted in.
type Move int

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
)

// AllMoves lists the moves in their canonical order. Move scores and
// observation vectors are keyed to this order everywhere.
var AllMoves = [4]Move{MoveUp, MoveDown, MoveLeft, MoveRight}

func (m Move) String() string {
	switch m {
	case MoveUp:
		return "UP"
	case MoveDown:
		return "DOWN"
	case MoveLeft:
		return "LEFT"
	case MoveRight:
		return "RIGHT"
	}
	return fmt.Sprintf("Move(%d)", int(m))
}

// ParseMove reads a direction name, case-insensitive.
func ParseMove(s string) (Move, error) {
	switch strings.ToUpper(s) {
	case "UP", "U":
		return MoveUp, nil
	case "DOWN", "D":
		return MoveDown, nil
	case "LEFT", "L":
		return MoveLeft, nil
	case "RIGHT", "R":
		return MoveRight, nil
	}
	return MoveUp, errors.Errorf("unknown move %q", s)
}

// Board is a full 4x4 grid of tile values. 0 means empty, every other
// cell holds a power of two. Boards are values: Apply returns a new
// board and never mutates its receiver.
type Board [4][4]int

// Outcome is the result of applying one move to a board. If Moved is
// false the Board field equals the input board and ScoreDelta is 0.
type Outcome struct {
	Board      Board
	Moved      bool
	ScoreDelta int
}

// ErrInvalidBoard marks boards that break the tile invariants.
var ErrInvalidBoard = errors.New("invalid board")

// mergeRowLeft is the single rules primitive: pack the non-zero tiles
// of a row to the left, merging each adjacent equal pair at most once,
// and report the score gained by the merges. 2,2,2,2 becomes 4,4,0,0.
func mergeRowLeft(row [4]int) (out [4]int, delta int) {
	var tiles [4]int
	n := 0
	for _, v := range row {
		if v != 0 {
			tiles[n] = v
			n++
		}
	}
	m := 0
	for i := 0; i < n; i++ {
		if i+1 < n && tiles[i] == tiles[i+1] {
			out[m] = tiles[i] * 2
			delta += out[m]
			i++
		} else {
			out[m] = tiles[i]
		}
		m++
	}
	return out, delta
}

func (b Board) applyLeft() (Board, int) {
	var nb Board
	var delta int
	for r := 0; r < 4; r++ {
		row, d := mergeRowLeft(b[r])
		nb[r] = row
		delta += d
	}
	return nb, delta
}

func (b Board) reverseRows() Board {
	var nb Board
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			nb[r][c] = b[r][3-c]
		}
	}
	return nb
}

func (b Board) transpose() Board {
	var nb Board
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			nb[r][c] = b[c][r]
		}
	}
	return nb
}

// Apply slides and merges the board in the given direction. Right is
// left on reversed rows, Up/Down are left/right on the transpose, so
// all four directions share the one mergeRowLeft primitive.
func (b Board) Apply(m Move) Outcome {
	var nb Board
	var delta int
	switch m {
	case MoveLeft:
		nb, delta = b.applyLeft()
	case MoveRight:
		nb, delta = b.reverseRows().applyLeft()
		nb = nb.reverseRows()
	case MoveUp:
		nb, delta = b.transpose().applyLeft()
		nb = nb.transpose()
	case MoveDown:
		nb, delta = b.transpose().reverseRows().applyLeft()
		nb = nb.reverseRows().transpose()
	}
	if nb == b {
		return Outcome{Board: b}
	}
	return Outcome{Board: nb, Moved: true, ScoreDelta: delta}
}

// HasMoves reports whether any direction would change the board. A
// board with an empty cell always has a move; a packed board only if
// two orthogonal neighbours are equal.
func (b Board) HasMoves() bool {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b[r][c] == 0 {
				return true
			}
			if c < 3 && b[r][c] == b[r][c+1] {
				return true
			}
			if r < 3 && b[r][c] == b[r+1][c] {
				return true
			}
		}
	}
	return false
}

func isPowerOfTwo(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// Validate checks the tile invariant: every cell is 0 or a power of
// two >= 2.
func (b Board) Validate() error {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if v := b[r][c]; v != 0 && !isPowerOfTwo(v) {
				return errors.Wrapf(ErrInvalidBoard, "cell (%d,%d) holds %d", r, c, v)
			}
		}
	}
	return nil
}

// FromRows builds a board from an orchestrator-supplied grid,
// rejecting wrong shapes and non-power-of-two values.
func FromRows(rows [][]int) (Board, error) {
	var b Board
	if len(rows) != 4 {
		return b, errors.Wrapf(ErrInvalidBoard, "got %d rows, want 4", len(rows))
	}
	for r, row := range rows {
		if len(row) != 4 {
			return b, errors.Wrapf(ErrInvalidBoard, "row %d has %d cells, want 4", r, len(row))
		}
		copy(b[r][:], row)
	}
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// EmptyCount returns the number of zero cells.
func (b Board) EmptyCount() int {
	n := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b[r][c] == 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile returns the largest tile value on the board, 0 when empty.
func (b Board) MaxTile() int {
	max := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b[r][c] > max {
				max = b[r][c]
			}
		}
	}
	return max
}

// AddRandomTile spawns a tile on a uniformly chosen empty cell: 2 with
// probability 0.9, otherwise 4. Returns the input board and false when
// the board is full.
func (b Board) AddRandomTile(rng *rand.Rand) (Board, bool) {
	var empty [16][2]int
	n := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b[r][c] == 0 {
				empty[n] = [2]int{r, c}
				n++
			}
		}
	}
	if n == 0 {
		return b, false
	}
	pos := empty[rng.Intn(n)]
	value := 2
	if rng.Float64() >= 0.9 {
		value = 4
	}
	b[pos[0]][pos[1]] = value
	return b, true
}

// String renders the board for logs and the CLI.
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < 4; r++ {
		sb.WriteString("|")
		for c := 0; c < 4; c++ {
			if b[r][c] == 0 {
				sb.WriteString("    .|")
			} else {
				fmt.Fprintf(&sb, "%5d|", b[r][c])
			}
		}
		if r < 3 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
