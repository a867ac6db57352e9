package logger

import "context"

// NopLogger отбрасывает все сообщения. Используется в тестах.
type NopLogger struct{}

func NewNop() Logger { return NopLogger{} }

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) Fatal(string, ...Field) {}

func (NopLogger) InfoWithContext(context.Context, string, ...Field)  {}
func (NopLogger) ErrorWithContext(context.Context, string, ...Field) {}

func (n NopLogger) With(...Field) Logger { return n }
func (NopLogger) Sync() error            { return nil }
