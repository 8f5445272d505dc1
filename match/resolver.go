// match/resolver.go
package match

// Move 玩家出拳
type Move string

const (
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"
)

// Valid reports whether the move is one of rock, paper, scissors.
func (m Move) Valid() bool {
	switch m {
	case MoveRock, MovePaper, MoveScissors:
		return true
	}
	return false
}

// Outcome identifies the winning side of a single round.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomePlayer1 Outcome = "player1"
	OutcomePlayer2 Outcome = "player2"
	OutcomeTie     Outcome = "tie"
)

// beats maps each move to the move it defeats.
var beats = map[Move]Move{
	MoveRock:     MoveScissors,
	MovePaper:    MoveRock,
	MoveScissors: MovePaper,
}

// ResolveMoves determines the round outcome for a pair of moves.
// Deterministic and side-effect free; swapping the arguments swaps
// the winning side.
func ResolveMoves(p1, p2 Move) (Outcome, error) {
	if !p1.Valid() || !p2.Valid() {
		return OutcomeNone, ErrInvalidMove
	}
	if p1 == p2 {
		return OutcomeTie, nil
	}
	if beats[p1] == p2 {
		return OutcomePlayer1, nil
	}
	return OutcomePlayer2, nil
}
