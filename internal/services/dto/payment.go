package dto

// PaymentEvent - тело webhook уведомления от ЮKassa.
// Статусу из него доверять нельзя, он только повод перепроверить
// платеж через API.
type PaymentEvent struct {
	Event  string        `json:"event"`
	Object PaymentObject `json:"object"`
}

type PaymentObject struct {
	ID string `json:"id"`
}

// EventPaymentSucceeded - единственный вид события, который мы обрабатываем
const EventPaymentSucceeded = "payment.succeeded"
