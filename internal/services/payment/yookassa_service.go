package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.yookassa.ru/v3"
	// Таймаут на обращение к API ЮKassa
	requestTimeout = 10 * time.Second

	// StatusSucceeded - единственный статус, после которого можно выдавать доступ
	StatusSucceeded = "succeeded"
)

var (
	// ErrGatewayUnavailable - сетевая ошибка, до API не достучались
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrGatewayRejected - API ответил, но не 2xx
	ErrGatewayRejected = errors.New("payment gateway rejected the request")
)

// Transaction - платеж, каким его видит ЮKassa.
// Metadata кладется нашей же стороной при создании платежа и должна
// содержать courseId и userId (и опционально userEmail).
type Transaction struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

// Succeeded сообщает, подтвержден ли платеж самим API
func (t *Transaction) Succeeded() bool {
	return t.Status == StatusSucceeded
}

// YooKassaService ходит в read API ЮKassa за настоящим статусом платежа.
// Входящий webhook - только сигнал проснуться: его полю status верить
// нельзя, payload может быть подделан или повторен.
type YooKassaService struct {
	ShopID    string
	SecretKey string
	BaseURL   string
	client    *http.Client
}

func NewYooKassaService(shopID, secretKey string) *YooKassaService {
	return &YooKassaService{
		ShopID:    shopID,
		SecretKey: secretKey,
		BaseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: requestTimeout},
	}
}

// GetPayment запрашивает платеж по id через API ЮKassa (basic auth)
func (s *YooKassaService) GetPayment(ctx context.Context, paymentID string) (*Transaction, error) {
	url := fmt.Sprintf("%s/payments/%s", s.BaseURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	req.SetBasicAuth(s.ShopID, s.SecretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrGatewayRejected, resp.StatusCode)
	}

	var tx Transaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayRejected, err)
	}

	return &tx, nil
}
