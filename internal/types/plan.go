package types

import (
	"time"

	"github.com/google/uuid"
)

// Plan is the persisted output of one advisory interaction. Plans are
// append-only: every saved chat creates a new row, history is never rewritten.
type Plan struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Goal      string    `gorm:"column:goal" json:"goal"`
	Content   string    `gorm:"type:text;column:content" json:"content"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Plan) TableName() string {
	return "plan"
}

// Task is one checklist item of a Plan. A plan with zero tasks is valid.
type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanID    uuid.UUID `gorm:"type:uuid;not null;index;column:plan_id" json:"plan_id"`
	Position  int       `gorm:"not null;column:position" json:"position"`
	Title     string    `gorm:"not null;column:title" json:"title"`
	Done      bool      `gorm:"not null;default:false;column:done" json:"done"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Task) TableName() string {
	return "task"
}
