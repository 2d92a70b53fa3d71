package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"gorm.io/gorm"
)

// ReconnectPlugin pings the pool before each statement and waits for the
// connection to come back when the ping fails with a network error.
type ReconnectPlugin struct {
	logger         *slog.Logger
	maxRetries     int
	retryDelay     time.Duration
	reconnectCount atomic.Int64
}

// NewReconnectPlugin creates a new reconnect plugin.
func NewReconnectPlugin(logger *slog.Logger) *ReconnectPlugin {
	return &ReconnectPlugin{
		logger:     logger,
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
	}
}

// Name returns the plugin name.
func (p *ReconnectPlugin) Name() string {
	return "reconnect_plugin"
}

// Initialize registers the ping callback ahead of every statement type.
func (p *ReconnectPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	registrations := []error{
		cb.Query().Before("gorm:query").Register("reconnect:before_query", p.beforeStatement),
		cb.Create().Before("gorm:create").Register("reconnect:before_create", p.beforeStatement),
		cb.Update().Before("gorm:update").Register("reconnect:before_update", p.beforeStatement),
		cb.Delete().Before("gorm:delete").Register("reconnect:before_delete", p.beforeStatement),
		cb.Row().Before("gorm:row").Register("reconnect:before_row", p.beforeStatement),
		cb.Raw().Before("gorm:raw").Register("reconnect:before_raw", p.beforeStatement),
	}
	return errors.Join(registrations...)
}

func (p *ReconnectPlugin) beforeStatement(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}

	err = sqlDB.PingContext(ctx)
	if err == nil || !shouldReconnect(err) {
		return
	}

	p.logger.Warn("database connection lost, attempting to reconnect", slog.String("error", err.Error()))
	if p.attemptReconnect(ctx, sqlDB) {
		p.logger.Info("database reconnection successful", slog.Int64("total_reconnects", p.reconnectCount.Load()))
		return
	}
	p.logger.Error("database reconnection failed after retries")
}

var connectionErrors = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"connection timed out",
	"eof",
	"bad connection",
	"closed network connection",
	"server closed",
}

func shouldReconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range connectionErrors {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func (p *ReconnectPlugin) attemptReconnect(ctx context.Context, sqlDB *sql.DB) bool {
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(p.retryDelay * time.Duration(attempt)):
		}

		if err := sqlDB.PingContext(ctx); err == nil {
			p.reconnectCount.Add(1)
			return true
		}
	}
	return false
}

// ReconnectCount returns the total number of successful reconnections.
func (p *ReconnectPlugin) ReconnectCount() int64 {
	return p.reconnectCount.Load()
}
