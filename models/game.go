package models

import (
	"time"
)

type GameType string

const (
	GameTypeRegistrable GameType = "registrable"
	GameTypeDisplayOnly GameType = "display-only"
)

// Valid reports whether t is one of the accepted game types.
func (t GameType) Valid() bool {
	return t == GameTypeRegistrable || t == GameTypeDisplayOnly
}

// Game is a catalog entry. Deleting a game is a hard delete and leaves any
// registrations pointing at it in place.
type Game struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"uniqueIndex;not null"`
	Description      string    `json:"description" gorm:"not null;default:''"`
	RegistrationOpen bool      `json:"registrationOpen" gorm:"not null"`
	GameType         GameType  `json:"gameType" gorm:"type:varchar(32);not null;default:'registrable'"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// AcceptsRegistrations checks the two eligibility flags in the order the
// ledger reports them.
func (g *Game) AcceptsRegistrations() error {
	if g.GameType == GameTypeDisplayOnly {
		return ErrDisplayOnlyGame
	}
	if !g.RegistrationOpen {
		return ErrRegistrationClosed
	}
	return nil
}
