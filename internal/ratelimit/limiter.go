package ratelimit

import (
	"context"
	"time"
)

// Limiter — ограничитель, параметризованный парой (requests, interval):
// не более requests вызовов Wait за любое окно interval. Используется
// вместо фиксированной задержки между запросами к ценовому API,
// наблюдаемая частота при этом не меняется.
type Limiter struct {
	interval time.Duration
	tokens   chan struct{}
	stop     chan struct{}
}

// New создает ограничитель на requests запросов за interval.
// Ведро емкостью в один токен с равномерным пополнением раз в
// interval/requests: стартовый запас плюс пополнение никогда не
// превышают requests в пределах одного окна.
func New(requests int, interval time.Duration) *Limiter {
	if requests < 1 {
		requests = 1
	}

	l := &Limiter{
		interval: interval,
		tokens:   make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}

	l.tokens <- struct{}{}

	go l.refill(interval / time.Duration(requests))

	return l
}

// refill равномерно возвращает токены в ведро.
func (l *Limiter) refill(step time.Duration) {
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			select {
			case l.tokens <- struct{}{}:
			default:
			}
		case <-l.stop:
			return
		}
	}
}

// Wait блокирует вызывающего до получения токена или отмены контекста.
func (l *Limiter) Wait(ctx context.Context) error {
	select {
	case <-l.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close останавливает пополнение ведра.
func (l *Limiter) Close() {
	close(l.stop)
}
