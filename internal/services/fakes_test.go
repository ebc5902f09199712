package services

import (
	"context"
	"sync"

	"savage_backend/internal/email"
	"savage_backend/internal/models"
	"savage_backend/internal/repositories"
	"savage_backend/internal/services/oauth"
	"savage_backend/internal/services/payment"

	"github.com/google/uuid"
)

// fakeUserRepo - потокобезопасная in-memory замена UserRepository.
// Уникальность email соблюдается так же, как это делает индекс в БД.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	// пока > 0, FindByEmailOrProvider отвечает "не найдено" -
	// имитация гонки, когда поиск прошел до чужого коммита
	hideLookups int
	// если задана, FindByID возвращает эту ошибку - имитация отказа БД
	findByIDErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmailOrProvider(email string, provider models.AuthProvider, providerID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideLookups > 0 {
		r.hideLookups--
		return nil, repositories.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.Email == email || (u.Provider == provider && u.ProviderID == providerID && providerID != "") {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	stored.FullName = user.FullName
	stored.AvatarURL = user.AvatarURL
	return nil
}

func (r *fakeUserRepo) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeCourseRepo - курсы только на чтение
type fakeCourseRepo struct {
	courses map[string]*models.Course
}

func newFakeCourseRepo(courses ...*models.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: make(map[string]*models.Course)}
	for _, c := range courses {
		r.courses[c.ID] = c
	}
	return r
}

func (r *fakeCourseRepo) FindByID(id string) (*models.Course, error) {
	if c, ok := r.courses[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrCourseNotFound
}

// fakeEnrollmentRepo повторяет контракт уникального индекса (user_id, course_id):
// второй Create той же пары возвращает ErrEnrollmentExists
type fakeEnrollmentRepo struct {
	mu          sync.Mutex
	enrollments map[string]*models.Enrollment

	// если true, FindByUserAndCourse всегда отвечает "не найдено" -
	// имитация гонки, когда пред-проверка прошла до чужого коммита
	hidePrecheck bool
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: make(map[string]*models.Enrollment)}
}

func enrollmentKey(userID, courseID string) string {
	return userID + "|" + courseID
}

func (r *fakeEnrollmentRepo) FindByUserAndCourse(userID, courseID string) (*models.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hidePrecheck {
		return nil, repositories.ErrEnrollmentNotFound
	}
	if e, ok := r.enrollments[enrollmentKey(userID, courseID)]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, repositories.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) Create(enrollment *models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := enrollmentKey(enrollment.UserID, enrollment.CourseID)
	if _, ok := r.enrollments[key]; ok {
		return repositories.ErrEnrollmentExists
	}
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	copied := *enrollment
	r.enrollments[key] = &copied
	return nil
}

func (r *fakeEnrollmentRepo) Update(enrollment *models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := enrollmentKey(enrollment.UserID, enrollment.CourseID)
	if _, ok := r.enrollments[key]; !ok {
		return repositories.ErrEnrollmentNotFound
	}
	copied := *enrollment
	r.enrollments[key] = &copied
	return nil
}

func (r *fakeEnrollmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.enrollments)
}

// fakeEmailProvider считает отправки
type fakeEmailProvider struct {
	mu            sync.Mutex
	confirmations []string
	welcomes      []string
}

func (p *fakeEmailProvider) Send(_ *email.Email) error { return nil }

func (p *fakeEmailProvider) SendEnrollmentConfirmation(to, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmations = append(p.confirmations, to)
	return nil
}

func (p *fakeEmailProvider) SendWelcome(to, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.welcomes = append(p.welcomes, to)
	return nil
}

func (p *fakeEmailProvider) Validate() error { return nil }

func (p *fakeEmailProvider) confirmationCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.confirmations)
}

// fakeOAuthProvider отдает заранее заданный профиль
type fakeOAuthProvider struct {
	name    string
	profile oauth.Profile
}

func (p *fakeOAuthProvider) Name() string         { return p.name }
func (p *fakeOAuthProvider) AuthorizeURL() string { return "https://provider.test/authorize" }

func (p *fakeOAuthProvider) ExchangeCode(_ context.Context, code string) (string, error) {
	if code == "" {
		return "", oauth.ErrExchangeFailed
	}
	return "provider-token", nil
}

func (p *fakeOAuthProvider) FetchProfile(_ context.Context, _ string) (*oauth.Profile, error) {
	copied := p.profile
	return &copied, nil
}

// fakeGateway - платежный API с заранее заданными платежами
type fakeGateway struct {
	mu           sync.Mutex
	transactions map[string]*payment.Transaction
	err          error
	calls        int
}

func newFakeGateway(txs ...*payment.Transaction) *fakeGateway {
	g := &fakeGateway{transactions: make(map[string]*payment.Transaction)}
	for _, tx := range txs {
		g.transactions[tx.ID] = tx
	}
	return g
}

func (g *fakeGateway) GetPayment(_ context.Context, paymentID string) (*payment.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if tx, ok := g.transactions[paymentID]; ok {
		return tx, nil
	}
	return nil, payment.ErrGatewayRejected
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
