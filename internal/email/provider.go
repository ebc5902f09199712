package email

// Email - одно исходящее письмо
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Provider определяет интерфейс для отправки email.
// Все отправки в этой системе best-effort: ошибка отправки
// логируется вызывающим кодом и никогда не валит операцию.
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendEnrollmentConfirmation отправляет подтверждение записи на курс
	SendEnrollmentConfirmation(to, courseTitle string) error

	// SendWelcome отправляет приветственное письмо после регистрации
	SendWelcome(to, name string) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}
