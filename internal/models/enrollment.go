package models

import "time"

// Enrollment - запись пользователя на курс.
// Уникальный индекс (user_id, course_id) - это точка сериализации
// для конкурирующих активаций: приложение делает пред-проверку,
// но гарантию дает именно constraint.
type Enrollment struct {
	BaseModel
	UserID      string     `gorm:"type:uuid;not null;uniqueIndex:uniq_user_course"`
	CourseID    string     `gorm:"type:uuid;not null;uniqueIndex:uniq_user_course"`
	Progress    int        `gorm:"not null;default:0"`
	EnrolledAt  time.Time  `gorm:"default:now()"`
	CompletedAt *time.Time
}
