package models

// Course - курс. CRUD по курсам живет в админке, здесь курс
// нужен только для чтения при активации доступа.
type Course struct {
	BaseModel
	Title       string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex"`
	Description string
	Price       float64
	IsPublished bool `gorm:"default:false"`
}
