package services

import (
	"context"
	"sync"
	"testing"

	"savage_backend/internal/models"
	"savage_backend/internal/services/dto"
	"savage_backend/internal/services/payment"
	"savage_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type enrollmentFixture struct {
	course  *models.Course
	userID  string
	gateway *fakeGateway
	enrolls *fakeEnrollmentRepo
	mail    *fakeEmailProvider
	svc     EnrollmentService
}

// newEnrollmentFixture собирает сервис с одним курсом и одним
// подтвержденным платежом pay-1
func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()

	course := &models.Course{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		Title:     "Съемка в движении",
	}
	userID := uuid.NewString()

	gateway := newFakeGateway(&payment.Transaction{
		ID:     "pay-1",
		Status: payment.StatusSucceeded,
		Metadata: map[string]string{
			"courseId":  course.ID,
			"userId":    userID,
			"userEmail": "model@test.com",
		},
	})

	enrolls := newFakeEnrollmentRepo()
	mail := &fakeEmailProvider{}

	return &enrollmentFixture{
		course:  course,
		userID:  userID,
		gateway: gateway,
		enrolls: enrolls,
		mail:    mail,
		svc:     NewEnrollmentService(newFakeCourseRepo(course), enrolls, gateway, mail),
	}
}

func succeededEvent(paymentID string) *dto.PaymentEvent {
	return &dto.PaymentEvent{
		Event:  dto.EventPaymentSucceeded,
		Object: dto.PaymentObject{ID: paymentID},
	}
}

// TestHandlePaymentEvent_Activated - золотой путь: запись создана, письмо одно
func TestHandlePaymentEvent_Activated(t *testing.T) {
	t.Parallel()

	f := newEnrollmentFixture(t)

	outcome, err := f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeActivated, outcome)
	assert.Equal(t, 1, f.enrolls.count())
	assert.Equal(t, []string{"model@test.com"}, f.mail.confirmations)

	created, err := f.enrolls.FindByUserAndCourse(f.userID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, created.Progress)
}

// TestHandlePaymentEvent_RedeliveryIsIdempotent - повторная доставка того же
// платежа не создает вторую запись и не шлет второе письмо
func TestHandlePaymentEvent_RedeliveryIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newEnrollmentFixture(t)

	outcome, err := f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
	require.NoError(t, err)
	require.Equal(t, OutcomeActivated, outcome)

	outcome, err = f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyEntitled, outcome)

	assert.Equal(t, 1, f.enrolls.count())
	assert.Equal(t, 1, f.mail.confirmationCount())
}

// TestHandlePaymentEvent_ConstraintRace - пред-проверка прошла, но Create
// уперся в уникальный индекс. Это штатное разрешение гонки, не ошибка.
func TestHandlePaymentEvent_ConstraintRace(t *testing.T) {
	t.Parallel()

	f := newEnrollmentFixture(t)

	// Запись уже есть, но пред-проверка ее "не видит"
	require.NoError(t, f.enrolls.Create(&models.Enrollment{
		UserID:   f.userID,
		CourseID: f.course.ID,
	}))
	f.enrolls.hidePrecheck = true

	outcome, err := f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyEntitled, outcome)
	assert.Equal(t, 1, f.enrolls.count())
	// Письмо шлется только при первом создании
	assert.Equal(t, 0, f.mail.confirmationCount())
}

// TestHandlePaymentEvent_ConcurrentDelivery - две одновременные доставки
// дают ровно одну запись и ровно одно письмо
func TestHandlePaymentEvent_ConcurrentDelivery(t *testing.T) {
	t.Parallel()

	f := newEnrollmentFixture(t)

	const workers = 8
	outcomes := make([]ActivationOutcome, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
		}(i)
	}
	wg.Wait()

	activated := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if outcomes[i] == OutcomeActivated {
			activated++
		} else {
			assert.Equal(t, OutcomeAlreadyEntitled, outcomes[i])
		}
	}
	assert.Equal(t, 1, activated)
	assert.Equal(t, 1, f.enrolls.count())
	assert.Equal(t, 1, f.mail.confirmationCount())
}

// TestHandlePaymentEvent_IgnoredEvents - нерелевантные события подтверждаются
// без похода в платежный API и без записей
func TestHandlePaymentEvent_IgnoredEvents(t *testing.T) {
	t.Parallel()

	f := newEnrollmentFixture(t)

	// Не тот вид события
	outcome, err := f.svc.HandlePaymentEvent(context.Background(), &dto.PaymentEvent{
		Event:  "payment.canceled",
		Object: dto.PaymentObject{ID: "pay-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)

	// Нет id платежа
	outcome, err = f.svc.HandlePaymentEvent(context.Background(), &dto.PaymentEvent{
		Event: dto.EventPaymentSucceeded,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)

	assert.Equal(t, 0, f.gateway.callCount())
	assert.Equal(t, 0, f.enrolls.count())
}

// TestHandlePaymentEvent_Unconfirmed - API не подтвердил успех платежа,
// что бы ни говорил webhook
func TestHandlePaymentEvent_Unconfirmed(t *testing.T) {
	t.Parallel()

	f := newEnrollmentFixture(t)
	f.gateway.transactions["pay-1"].Status = "pending"

	outcome, err := f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnconfirmed, outcome)
	assert.Equal(t, 0, f.enrolls.count())
	assert.Equal(t, 0, f.mail.confirmationCount())
}

// TestHandlePaymentEvent_GatewayErrors - сетевая ошибка и отказ API
// различаются по коду
func TestHandlePaymentEvent_GatewayErrors(t *testing.T) {
	t.Parallel()

	f := newEnrollmentFixture(t)

	f.gateway.err = payment.ErrGatewayUnavailable
	_, err := f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeGatewayUnavailable, appErr.Code)

	f.gateway.err = payment.ErrGatewayRejected
	_, err = f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeGatewayRejected, appErr.Code)

	assert.Equal(t, 0, f.enrolls.count())
}

// TestHandlePaymentEvent_BadMetadata - отсутствующие и непарсящиеся
// метаданные это явная ошибка, а не тихое игнорирование
func TestHandlePaymentEvent_BadMetadata(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		metadata map[string]string
	}{
		{"без метаданных", nil},
		{"нет courseId", map[string]string{"userId": uuid.NewString()}},
		{"нет userId", map[string]string{"courseId": uuid.NewString()}},
		{"courseId не UUID", map[string]string{"courseId": "42", "userId": uuid.NewString()}},
		{"userId не UUID", map[string]string{"courseId": uuid.NewString(), "userId": "abc"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newEnrollmentFixture(t)
			f.gateway.transactions["pay-1"].Metadata = tc.metadata

			_, err := f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.CodeMissingMetadata, appErr.Code)
			assert.Equal(t, 0, f.enrolls.count())
		})
	}
}

// TestHandlePaymentEvent_CourseNotFound - курс из метаданных не существует
func TestHandlePaymentEvent_CourseNotFound(t *testing.T) {
	t.Parallel()

	f := newEnrollmentFixture(t)
	f.gateway.transactions["pay-1"].Metadata["courseId"] = uuid.NewString()

	_, err := f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.Equal(t, 0, f.enrolls.count())
}

// TestHandlePaymentEvent_NoEmailInMetadata - активация проходит
// и без userEmail, просто без письма
func TestHandlePaymentEvent_NoEmailInMetadata(t *testing.T) {
	t.Parallel()

	f := newEnrollmentFixture(t)
	delete(f.gateway.transactions["pay-1"].Metadata, "userEmail")

	outcome, err := f.svc.HandlePaymentEvent(context.Background(), succeededEvent("pay-1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeActivated, outcome)
	assert.Equal(t, 1, f.enrolls.count())
	assert.Equal(t, 0, f.mail.confirmationCount())
}

// TestEnroll - самостоятельная запись идемпотентна
func TestEnroll(t *testing.T) {
	t.Parallel()

	f := newEnrollmentFixture(t)

	first, err := f.svc.Enroll(f.userID, f.course.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := f.svc.Enroll(f.userID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.enrolls.count())

	_, err = f.svc.Enroll(f.userID, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
