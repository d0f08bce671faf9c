package types

import (
	"time"

	"github.com/google/uuid"
)

// HealthSample is one day's recorded or device-synced metrics. Every metric is
// a pointer: absent and zero are different facts (zero steps is a logged rest
// day, a nil pointer means the field was never reported).
type HealthSample struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_sample_user_date,priority:1;column:user_id" json:"user_id"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:idx_sample_user_date,priority:2;column:date" json:"date"`
	Weight       *float64  `gorm:"column:weight" json:"weight"`
	BodyFat      *float64  `gorm:"column:body_fat" json:"body_fat"`
	Steps        *int      `gorm:"column:steps" json:"steps"`
	Calories     *int      `gorm:"column:calories" json:"calories"`
	WaterIntake  *int      `gorm:"column:water_intake" json:"water_intake"`
	BloodGlucose *float64  `gorm:"column:blood_glucose" json:"blood_glucose"`
	SleepHours   *float64  `gorm:"column:sleep_hours" json:"sleep_hours"`
	HeartRate    *int      `gorm:"column:heart_rate" json:"heart_rate"`
	Systolic     *int      `gorm:"column:systolic" json:"systolic"`
	Diastolic    *int      `gorm:"column:diastolic" json:"diastolic"`
	Note         string    `gorm:"column:note" json:"note"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (HealthSample) TableName() string {
	return "health_sample"
}
