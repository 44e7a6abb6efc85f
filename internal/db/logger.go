package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

type slogWriter struct {
	l *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.l.Warn("gorm_query", "detail", strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " "))
}

// newGormLogger sends slow queries and failed statements to slog. Missing
// rows are a normal outcome for lookups and are not logged.
func newGormLogger(l *slog.Logger) gormlogger.Interface {
	return gormlogger.New(slogWriter{l: l.With("component", "gorm")}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
