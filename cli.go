package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bot-2048/grid"
	"bot-2048/strategy"
)

// defaultStrategyID is selected until the host picks another one.
const defaultStrategyID = "enhanced-heuristic_2.1"

// runCLI drives the line protocol the orchestrator speaks: it feeds
// observed boards in, we answer with directions. Game-over detection
// stays on the orchestrator's side.
func runCLI(reg *strategy.Registry, in io.Reader, out io.Writer) error {
	current, err := reg.NewStrategy(defaultStrategyID, nil)
	if err != nil {
		return err
	}
	currentID := defaultStrategyID
	var board grid.Board

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "help":
			fmt.Fprintln(out, "commands: list | strategy <id> | board <16 tiles row-major> | show | move | scores | newgame | quit")
		case "list":
			for _, meta := range reg.List("") {
				fmt.Fprintf(out, "%s\t%s\t%s\n", meta.ID(), meta.Category, meta.Description)
			}
		case "strategy":
			if len(tokens) != 2 {
				fmt.Fprintln(out, "error: usage: strategy <id>")
				continue
			}
			s, err := reg.NewStrategy(tokens[1], nil)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			current = s
			currentID = tokens[1]
			fmt.Fprintf(out, "strategy %s\n", currentID)
		case "board":
			b, err := parseBoard(tokens[1:])
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			board = b
		case "show":
			fmt.Fprintln(out, board.String())
		case "move":
			mv, err := current.NextMove(board)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "move %s\n", mv)
		case "scores":
			scores, err := current.MoveScores(board)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			for i, m := range grid.AllMoves {
				if i > 0 {
					fmt.Fprint(out, " ")
				}
				fmt.Fprintf(out, "%s=%.1f", m, scores[i])
			}
			fmt.Fprintln(out)
		case "newgame":
			board = grid.Board{}
			current.Reset()
		case "quit":
			return nil
		default:
			fmt.Fprintf(out, "error: unknown command %q\n", tokens[0])
		}
	}
	return scanner.Err()
}

// parseBoard reads 16 row-major tile values.
func parseBoard(tokens []string) (grid.Board, error) {
	if len(tokens) != 16 {
		return grid.Board{}, fmt.Errorf("got %d tiles, want 16", len(tokens))
	}
	rows := make([][]int, 4)
	for r := 0; r < 4; r++ {
		rows[r] = make([]int, 4)
		for c := 0; c < 4; c++ {
			v, err := strconv.Atoi(tokens[r*4+c])
			if err != nil {
				return grid.Board{}, fmt.Errorf("tile %d: %v", r*4+c, err)
			}
			rows[r][c] = v
		}
	}
	return grid.FromRows(rows)
}
