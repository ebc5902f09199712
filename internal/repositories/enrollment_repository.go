package repositories

import (
	"errors"

	"savage_backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrEnrollmentExists возвращается при нарушении уникального индекса
	// (user_id, course_id). Вызывающий код обязан уметь отличать эту
	// ошибку: гонка двух одинаковых уведомлений об оплате разрешается
	// именно через нее.
	ErrEnrollmentExists = errors.New("enrollment already exists")
)

type EnrollmentRepository interface {
	FindByUserAndCourse(userID, courseID string) (*models.Enrollment, error)
	Create(enrollment *models.Enrollment) error
	Update(enrollment *models.Enrollment) error
}

type EnrollmentRepositoryImpl struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &EnrollmentRepositoryImpl{db: db}
}

func (r *EnrollmentRepositoryImpl) FindByUserAndCourse(userID, courseID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.First(&enrollment, "user_id = ? AND course_id = ?", userID, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepositoryImpl) Create(enrollment *models.Enrollment) error {
	if err := r.db.Create(enrollment).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrEnrollmentExists
		}
		return err
	}
	return nil
}

func (r *EnrollmentRepositoryImpl) Update(enrollment *models.Enrollment) error {
	result := r.db.Model(enrollment).Updates(map[string]interface{}{
		"progress":     enrollment.Progress,
		"completed_at": enrollment.CompletedAt,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

// isUniqueViolation распознает нарушение уникального constraint постгреса
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
