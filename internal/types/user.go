package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	GoalWeightLoss = "weight_loss"
	GoalMuscleGain = "muscle_gain"
	GoalMaintain   = "maintain"
)

// User rows are owned by the account-management side; the health core only
// ever reads them for profile context.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Nickname       string    `gorm:"column:nickname" json:"nickname"`
	Gender         string    `gorm:"column:gender" json:"gender"`
	BirthYear      *int      `gorm:"column:birth_year" json:"birth_year"`
	HeightCM       *float64  `gorm:"column:height_cm" json:"height_cm"`
	WeightKG       *float64  `gorm:"column:weight_kg" json:"weight_kg"`
	MedicalHistory string    `gorm:"column:medical_history" json:"medical_history"`
	Goal           string    `gorm:"column:goal" json:"goal"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
