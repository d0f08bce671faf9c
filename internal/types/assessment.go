package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Assessment keeps exactly one row per user: regenerating overwrites the
// existing evaluation in place instead of appending. This asymmetry with
// Plan's append-only history is intentional.
type Assessment struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"user_id"`
	HealthScore int            `gorm:"not null;column:health_score" json:"health_score"`
	Breakdown   datatypes.JSON `gorm:"column:breakdown" json:"breakdown"`
	Suggestions datatypes.JSON `gorm:"column:suggestions" json:"suggestions"`
	Summary     string         `gorm:"type:text;column:summary" json:"summary"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Assessment) TableName() string {
	return "assessment"
}
