package core

import (
	"fmt"
	"strings"
)

// Payoffs is an ordered pair (agentA, agentB) of single-round payoffs.
type Payoffs struct {
	A int
	B int
}

// PayoffMatrix is an immutable 2x2 table mapping ordered action pairs to
// ordered payoff pairs. The core does not validate the dilemma-defining
// inequalities (DC > CC > DD > CD, 2*CC > DC+CD); it uses whatever the
// config supplies, per spec.
type PayoffMatrix struct {
	table map[Action]map[Action]Payoffs
}

// DefaultPayoffMatrix is the canonical Prisoner's Dilemma instance.
func DefaultPayoffMatrix() *PayoffMatrix {
	return NewPayoffMatrix(map[Action]map[Action]Payoffs{
		Cooperate: {Cooperate: {3, 3}, Defect: {0, 5}},
		Defect:    {Cooperate: {5, 0}, Defect: {1, 1}},
	})
}

// NewPayoffMatrix builds a matrix from a fully specified 2x2 table.
func NewPayoffMatrix(table map[Action]map[Action]Payoffs) *PayoffMatrix {
	m := &PayoffMatrix{table: make(map[Action]map[Action]Payoffs, 2)}
	for _, row := range []Action{Cooperate, Defect} {
		m.table[row] = make(map[Action]Payoffs, 2)
		for _, col := range []Action{Cooperate, Defect} {
			m.table[row][col] = table[row][col]
		}
	}
	return m
}

// Payoffs returns (payoffA, payoffB) for the given (actionA, actionB) pair.
func (m *PayoffMatrix) Payoffs(a, b Action) (int, int) {
	p := m.table[a][b]
	return p.A, p.B
}

// ToMap serializes the matrix to the nested {C: {C: [a,b], D: [a,b]}, ...}
// form used in observations and round-event context keys.
func (m *PayoffMatrix) ToMap() map[string]map[string][]int {
	out := map[string]map[string][]int{"C": {}, "D": {}}
	for _, row := range []Action{Cooperate, Defect} {
		for _, col := range []Action{Cooperate, Defect} {
			p := m.table[row][col]
			out[row.String()][col.String()] = []int{p.A, p.B}
		}
	}
	return out
}

// PayoffMatrixFromMap is the inverse of ToMap, used when reconstructing a
// matrix from a decoded config document or a logged observation.
func PayoffMatrixFromMap(raw map[string]map[string][]int) (*PayoffMatrix, error) {
	table := map[Action]map[Action]Payoffs{}
	for _, rowName := range []string{"C", "D"} {
		rowAction, err := ParseActionStrict(rowName)
		if err != nil {
			return nil, err
		}
		row, ok := raw[rowName]
		if !ok {
			return nil, fmt.Errorf("core: payoff matrix missing row %q", rowName)
		}
		table[rowAction] = map[Action]Payoffs{}
		for _, colName := range []string{"C", "D"} {
			colAction, _ := ParseActionStrict(colName)
			pair, ok := row[colName]
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("core: payoff matrix missing/malformed entry [%s][%s]", rowName, colName)
			}
			table[rowAction][colAction] = Payoffs{A: pair[0], B: pair[1]}
		}
	}
	return NewPayoffMatrix(table), nil
}

// FormatTable renders a four-row human-readable table for prompt assembly.
func (m *PayoffMatrix) FormatTable() string {
	var b strings.Builder
	b.WriteString("Your action | Opponent action | Your payoff | Opponent payoff\n")
	b.WriteString("------------|-----------------|-------------|----------------\n")
	for _, my := range []Action{Cooperate, Defect} {
		for _, opp := range []Action{Cooperate, Defect} {
			myPayoff, oppPayoff := m.Payoffs(my, opp)
			fmt.Fprintf(&b, "     %s      |        %s        |      %d      |       %d\n",
				my, opp, myPayoff, oppPayoff)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
