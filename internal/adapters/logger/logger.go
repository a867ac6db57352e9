package logger

import "context"

// Field представляет дополнительное поле в логе.
type Field struct {
	Key   string
	Value interface{}
}

// Logger определяет интерфейс системы логирования.
// Реализация может использовать любую библиотеку (Zap, Logrus, Zerolog и т.д.).
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// InfoWithContext и ErrorWithContext дополнительно извлекают из
	// контекста request_id и store_id, если они там есть.
	InfoWithContext(ctx context.Context, msg string, fields ...Field)
	ErrorWithContext(ctx context.Context, msg string, fields ...Field)

	// With возвращает новый логгер с добавленными полями.
	With(fields ...Field) Logger

	// Sync сбрасывает буферы логгера.
	Sync() error
}
