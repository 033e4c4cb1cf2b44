// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LoggingConfig defines which types of automated logging are enabled.
type LoggingConfig struct {
	EnableRepoLogging bool
	EnableBlobLogging bool
}

// Config holds the current logging configuration.
var Config = LoggingConfig{
	EnableRepoLogging: true,
	EnableBlobLogging: true,
}

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	tableName string
	logger    *Logger
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(tableName string) *RepoLogger {
	return &RepoLogger{
		tableName: tableName,
		logger:    GlobalLogger,
	}
}

// LogWrite logs a repository write operation (create, update, or delete).
func (l *RepoLogger) LogWrite(ctx context.Context, operation string, fields map[string]interface{}) {
	if !Config.EnableRepoLogging {
		return
	}
	attrs := []any{
		slog.String("table", l.tableName),
		slog.String("operation", operation),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.InfoContext(ctx, "repository write", attrs...)
}

// LogError logs a repository error.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	if !Config.EnableRepoLogging {
		return
	}
	l.logger.ErrorContext(ctx, "repository error",
		slog.String("table", l.tableName),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// BlobLogger provides structured logging for external blob store calls.
type BlobLogger struct {
	provider string
	logger   *Logger
}

// NewBlobLogger creates a new BlobLogger for the given provider name.
func NewBlobLogger(provider string) *BlobLogger {
	return &BlobLogger{
		provider: provider,
		logger:   GlobalLogger,
	}
}

// LogOperation logs a completed blob store call with its attempt count.
func (l *BlobLogger) LogOperation(ctx context.Context, operation string, attempts int, err error) {
	if !Config.EnableBlobLogging {
		return
	}
	attrs := []any{
		slog.String("provider", l.provider),
		slog.String("operation", operation),
		slog.Int("attempts", attempts),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.logger.ErrorContext(ctx, "blob operation failed", attrs...)
		return
	}
	l.logger.InfoContext(ctx, "blob operation", attrs...)
}
