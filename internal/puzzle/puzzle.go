package puzzle

import (
	"time"

	"github.com/google/uuid"
)

// Puzzle is one day's allocated historical event. Players guess the
// event's date; the answer date is withheld from unfinished games by
// the handler layer.
type Puzzle struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PuzzleDate time.Time `json:"puzzle_date" db:"puzzle_date"`
	EventText  string    `json:"event_text" db:"event_text"`
	AnswerDate time.Time `json:"answer_date" db:"answer_date"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Public is the client view of a puzzle without the answer.
type Public struct {
	ID         uuid.UUID `json:"id"`
	PuzzleDate time.Time `json:"puzzle_date"`
	EventText  string    `json:"event_text"`
}

func (p *Puzzle) Public() *Public {
	return &Public{ID: p.ID, PuzzleDate: p.PuzzleDate, EventText: p.EventText}
}
