package models

import (
	"time"
)

// Registration links one student to one game. The (StudentID, GameID) pair
// carries a unique index; rows are hard deleted so an unregistered pair can be
// registered again.
//
// Student and Game are weak references: no foreign keys are created and a
// deleted game shows up as a nil Game on the joined record.
type Registration struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StudentID    uint      `json:"studentId" gorm:"not null;uniqueIndex:idx_registrations_student_game,priority:1"`
	GameID       uint      `json:"gameId" gorm:"not null;index;uniqueIndex:idx_registrations_student_game,priority:2"`
	RegisteredAt time.Time `json:"registeredAt" gorm:"not null;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relationships
	Student *User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Game    *Game `json:"game" gorm:"foreignKey:GameID"`
}
