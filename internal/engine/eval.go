// Package engine implements static evaluation, the fixed-depth alpha-beta
// search and move generation verification.
package engine

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// Evaluation profiles
const (
	ProfileStandard = "standard"
	ProfilePawn     = "pawn"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Evaluator scores a position from piece-square tables and material.
// Tables are written from White's point of view with a8 first, so a white
// piece on sq reads Tables[pt][sq] and a black one reads Tables[pt][sq^56].
type Evaluator struct {
	Name     string
	Material [6]int
	Tables   [6][64]int
}

// Piece-Square Tables (PST) for positional evaluation, rank 8 on the first row.

// Pawn PST - encourages central control and advancement
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Knight PST - encourages central positioning
var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

// Bishop PST - encourages central diagonals
var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// Rook PST - encourages 7th rank and open files
var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

// Queen PST - slight central preference
var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// King PST - encourages castling
var kingPST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

// NewStandardEvaluator uses material plus a table for every piece kind.
func NewStandardEvaluator() *Evaluator {
	return &Evaluator{
		Name:     ProfileStandard,
		Material: [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue},
		Tables:   [6][64]int{pawnPST, knightPST, bishopPST, rookPST, queenPST, kingPST},
	}
}

// NewPawnEvaluator only scores pawn placement. Every other table and all
// material values are zero.
func NewPawnEvaluator() *Evaluator {
	e := &Evaluator{Name: ProfilePawn}
	e.Tables[board.Pawn] = pawnPST
	return e
}

// NewEvaluator returns the evaluator for a profile name.
func NewEvaluator(profile string) (*Evaluator, error) {
	switch profile {
	case "", ProfileStandard:
		return NewStandardEvaluator(), nil
	case ProfilePawn:
		return NewPawnEvaluator(), nil
	}
	return nil, fmt.Errorf("unknown evaluation profile: %q", profile)
}

// Side sums the material and table bonuses of c's pieces.
func (e *Evaluator) Side(pos *board.Position, c board.Color) int {
	score := 0
	for pt := board.Pawn; pt <= board.King; pt++ {
		bb := pos.Pieces[board.NewPiece(pt, c)]
		for bb != 0 {
			sq := bb.PopLSB()
			if c == board.Black {
				sq = sq.Mirror()
			}
			score += e.Material[pt] + e.Tables[pt][sq]
		}
	}
	return score
}

// Evaluate returns the static score of pos relative to c: positive favours c.
func (e *Evaluator) Evaluate(pos *board.Position, c board.Color) int {
	return e.Side(pos, c) - e.Side(pos, c.Other())
}
