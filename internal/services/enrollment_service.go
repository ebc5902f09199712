package services

import (
	"context"

	"savage_backend/internal/email"
	"savage_backend/internal/logger"
	"savage_backend/internal/models"
	"savage_backend/internal/repositories"
	"savage_backend/internal/services/dto"
	"savage_backend/internal/services/payment"
	"savage_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// ActivationOutcome - терминальный исход обработки платежного события
type ActivationOutcome string

const (
	// OutcomeIgnored - событие не payment.succeeded или без id платежа
	OutcomeIgnored ActivationOutcome = "ignored"
	// OutcomeUnconfirmed - API ЮKassa не подтвердил успех платежа
	OutcomeUnconfirmed ActivationOutcome = "unconfirmed"
	// OutcomeAlreadyEntitled - запись на курс уже существует, повторная доставка
	OutcomeAlreadyEntitled ActivationOutcome = "already_entitled"
	// OutcomeActivated - создана новая запись на курс
	OutcomeActivated ActivationOutcome = "activated"
)

// PaymentGateway - read API платежного провайдера
type PaymentGateway interface {
	GetPayment(ctx context.Context, paymentID string) (*payment.Transaction, error)
}

type EnrollmentService interface {
	// HandlePaymentEvent превращает уведомление об оплате в доступ к курсу.
	// Идемпотентен: повторная доставка того же платежа не создает
	// вторую запись и не шлет второе письмо.
	HandlePaymentEvent(ctx context.Context, event *dto.PaymentEvent) (ActivationOutcome, error)

	// Enroll - самостоятельная запись пользователя на курс (без оплаты)
	Enroll(userID, courseID string) (*models.Enrollment, error)
}

type EnrollmentServiceImpl struct {
	courseRepo     repositories.CourseRepository
	enrollmentRepo repositories.EnrollmentRepository
	gateway        PaymentGateway
	emailProvider  email.Provider
}

func NewEnrollmentService(
	courseRepo repositories.CourseRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	gateway PaymentGateway,
	emailProvider email.Provider,
) EnrollmentService {
	return &EnrollmentServiceImpl{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		gateway:        gateway,
		emailProvider:  emailProvider,
	}
}

// HandlePaymentEvent - порядок шагов фиксированный:
// подтверждение через API -> загрузка курса -> пред-проверка записи ->
// создание с откатом на constraint. Пред-проверку можно было бы убрать
// (станет только лишний запрос), а вот откат на constraint убирать
// нельзя: две конкурирующие доставки могут обе пройти пред-проверку.
// Платежный API опрашивается ДО каких-либо записей в БД, транзакция
// не держится через внешний сетевой вызов.
func (s *EnrollmentServiceImpl) HandlePaymentEvent(ctx context.Context, event *dto.PaymentEvent) (ActivationOutcome, error) {
	// Нерелевантные события подтверждаем без обработки, чтобы
	// провайдер не ретраил их бесконечно
	if event.Event != dto.EventPaymentSucceeded || event.Object.ID == "" {
		return OutcomeIgnored, nil
	}

	// Уведомлению не верим: статус перечитываем из API провайдера
	tx, err := s.gateway.GetPayment(ctx, event.Object.ID)
	if err != nil {
		if apperrors.Is(err, payment.ErrGatewayUnavailable) {
			return "", apperrors.ErrGatewayUnavailable(err)
		}
		return "", apperrors.ErrGatewayRejected(err)
	}

	if !tx.Succeeded() {
		return OutcomeUnconfirmed, nil
	}

	courseIDRaw := tx.Metadata["courseId"]
	userIDRaw := tx.Metadata["userId"]
	userEmail := tx.Metadata["userEmail"]

	if courseIDRaw == "" || userIDRaw == "" {
		return "", apperrors.ErrMissingMetadata("Missing metadata: courseId/userId")
	}

	courseID, err := uuid.Parse(courseIDRaw)
	if err != nil {
		return "", apperrors.ErrMissingMetadata("Invalid metadata: courseId is not a UUID")
	}
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		return "", apperrors.ErrMissingMetadata("Invalid metadata: userId is not a UUID")
	}

	course, err := s.courseRepo.FindByID(courseID.String())
	if err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return "", apperrors.ErrCourseNotFound
		}
		return "", apperrors.InternalError(err)
	}

	// Пред-проверка: повторная доставка уже обработанного платежа
	_, err = s.enrollmentRepo.FindByUserAndCourse(userID.String(), courseID.String())
	if err == nil {
		return OutcomeAlreadyEntitled, nil
	}
	if !apperrors.Is(err, repositories.ErrEnrollmentNotFound) {
		return "", apperrors.InternalError(err)
	}

	enrollment := &models.Enrollment{
		UserID:   userID.String(),
		CourseID: courseID.String(),
		Progress: 0,
	}
	if err := s.enrollmentRepo.Create(enrollment); err != nil {
		// Гонка двух одинаковых доставок: уникальный индекс - это
		// и есть гарантия exactly-once, конфликт здесь не ошибка
		if apperrors.Is(err, repositories.ErrEnrollmentExists) {
			return OutcomeAlreadyEntitled, nil
		}
		return "", apperrors.InternalError(err)
	}

	// Письмо только при первом создании записи. Ошибка отправки
	// не откатывает и не валит активацию.
	if userEmail != "" && s.emailProvider != nil {
		if err := s.emailProvider.SendEnrollmentConfirmation(userEmail, course.Title); err != nil {
			logger.CtxWarn(ctx, "Failed to send enrollment confirmation",
				"error", err, "email", userEmail, "course_id", courseID.String())
		}
	}

	return OutcomeActivated, nil
}

// Enroll - самостоятельная запись на курс
func (s *EnrollmentServiceImpl) Enroll(userID, courseID string) (*models.Enrollment, error) {
	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if existing, err := s.enrollmentRepo.FindByUserAndCourse(userID, courseID); err == nil {
		// Повторная запись - идемпотентный успех
		return existing, nil
	} else if !apperrors.Is(err, repositories.ErrEnrollmentNotFound) {
		return nil, apperrors.InternalError(err)
	}

	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Progress: 0,
	}
	if err := s.enrollmentRepo.Create(enrollment); err != nil {
		if apperrors.Is(err, repositories.ErrEnrollmentExists) {
			existing, findErr := s.enrollmentRepo.FindByUserAndCourse(userID, courseID)
			if findErr != nil {
				return nil, apperrors.InternalError(findErr)
			}
			return existing, nil
		}
		return nil, apperrors.InternalError(err)
	}

	return enrollment, nil
}
