package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger адаптер для Zap, реализующий Logger.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// NewZapLogger создает новый логгер на основе Zap.
func NewZapLogger(level string, isProduction bool) (Logger, error) {
	var config zap.Config

	if isProduction {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	built, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{logger: built.Sugar()}, nil
}

// toKeysAndValues раскладывает поля в пары ключ-значение для sugared-логгера.
func toKeysAndValues(fields []Field) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

// fieldsFromContext извлекает сквозные поля из контекста запроса.
func fieldsFromContext(ctx context.Context) []interface{} {
	var kv []interface{}

	if reqID, ok := ctx.Value("request_id").(string); ok {
		kv = append(kv, "request_id", reqID)
	}
	if storeID, ok := ctx.Value("store_id").(string); ok {
		kv = append(kv, "store_id", storeID)
	}
	if userID, ok := ctx.Value("user_id").(string); ok {
		kv = append(kv, "user_id", userID)
	}

	return kv
}

func (z *ZapLogger) Debug(msg string, fields ...Field) {
	z.logger.Debugw(msg, toKeysAndValues(fields)...)
}

func (z *ZapLogger) Info(msg string, fields ...Field) {
	z.logger.Infow(msg, toKeysAndValues(fields)...)
}

func (z *ZapLogger) Warn(msg string, fields ...Field) {
	z.logger.Warnw(msg, toKeysAndValues(fields)...)
}

func (z *ZapLogger) Error(msg string, fields ...Field) {
	z.logger.Errorw(msg, toKeysAndValues(fields)...)
}

func (z *ZapLogger) Fatal(msg string, fields ...Field) {
	z.logger.Fatalw(msg, toKeysAndValues(fields)...)
	os.Exit(1)
}

func (z *ZapLogger) InfoWithContext(ctx context.Context, msg string, fields ...Field) {
	z.logger.Infow(msg, append(toKeysAndValues(fields), fieldsFromContext(ctx)...)...)
}

func (z *ZapLogger) ErrorWithContext(ctx context.Context, msg string, fields ...Field) {
	z.logger.Errorw(msg, append(toKeysAndValues(fields), fieldsFromContext(ctx)...)...)
}

func (z *ZapLogger) With(fields ...Field) Logger {
	return &ZapLogger{logger: z.logger.With(toKeysAndValues(fields)...)}
}

func (z *ZapLogger) Sync() error {
	return z.logger.Sync()
}
