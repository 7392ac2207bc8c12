package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/storage"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Readiness checks the backends a request depends on
type Readiness struct {
	db      Pinger
	store   storage.Store
	timeout time.Duration
	logger  *zap.Logger
}

// NewReadiness creates a readiness handler. Nil dependencies are skipped.
func NewReadiness(db Pinger, store storage.Store, logger *zap.Logger) *Readiness {
	return &Readiness{db: db, store: store, timeout: 5 * time.Second, logger: logger}
}

// Ready probes the database and round-trips a small object through storage
// @Summary      Readiness probe
// @Description  Pings the database and writes, checks and removes a probe object in storage
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "All checks passed"
// @Failure      503  {object}  map[string]interface{}  "At least one check failed"
// @Router       /health/ready [get]
func (h *Readiness) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	checks := map[string]string{}
	ready := true

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			ready = false
		} else {
			checks["database"] = "ok"
		}
	}

	if h.store != nil {
		if err := h.probeStorage(ctx); err != nil {
			checks["storage"] = err.Error()
			ready = false
		} else {
			checks["storage"] = "ok"
		}
	}

	status := http.StatusOK
	body := map[string]interface{}{"status": "ready", "checks": checks}
	if !ready {
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
		if h.logger != nil {
			h.logger.Warn("⚠️ readiness check failed", zap.Any("checks", checks))
		}
	}
	return c.JSON(status, body)
}

func (h *Readiness) probeStorage(ctx context.Context) error {
	key := fmt.Sprintf("health/probe-%d.txt", time.Now().UnixNano())
	payload := []byte("ok")

	if _, err := h.store.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), "text/plain"); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	defer func() {
		if err := h.store.Remove(context.Background(), key); err != nil && h.logger != nil {
			h.logger.Warn("failed to remove storage probe", zap.String("key", key), zap.Error(err))
		}
	}()

	ok, err := h.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("exists: %w", err)
	}
	if !ok {
		return fmt.Errorf("probe object %s not visible after write", key)
	}
	return nil
}
