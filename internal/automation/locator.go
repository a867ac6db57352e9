package automation

import (
	"context"
	"time"
)

// Locator именованная стратегия поиска элемента на странице портала.
// Порталы маркетплейсов регулярно меняют верстку: стратегии перечисляются
// в порядке приоритета и пробуются по очереди.
type Locator struct {
	Name     string
	Selector string
}

// Outcome результат ожидания элемента: какая стратегия сработала и сколько
// времени заняло ожидание.
type Outcome struct {
	Found   bool
	Locator string
	Elapsed time.Duration
}

// Prober проверяет наличие элемента по селектору.
type Prober interface {
	Probe(ctx context.Context, selector string) (bool, error)
}

const defaultPollInterval = 500 * time.Millisecond

// WaitForAny ждет появления любого из локаторов, опрашивая их в заданном
// порядке. Общее время ожидания ограничено timeout: суммарно, а не на каждую
// стратегию. Возвращает Outcome с именем сработавшей стратегии; если за
// отведенное время не сработала ни одна — Outcome{Found: false} без ошибки.
func WaitForAny(ctx context.Context, prober Prober, locators []Locator, timeout time.Duration) (Outcome, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(defaultPollInterval)
	defer ticker.Stop()

	for {
		for _, locator := range locators {
			found, err := prober.Probe(ctx, locator.Selector)
			if err != nil {
				if ctx.Err() != nil {
					return Outcome{Elapsed: time.Since(start)}, nil
				}
				return Outcome{Elapsed: time.Since(start)}, err
			}
			if found {
				return Outcome{
					Found:   true,
					Locator: locator.Name,
					Elapsed: time.Since(start),
				}, nil
			}
		}

		select {
		case <-ctx.Done():
			return Outcome{Elapsed: time.Since(start)}, nil
		case <-ticker.C:
		}
	}
}
