package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lukeperry/ssu-career-connect/internal/config"
	"github.com/lukeperry/ssu-career-connect/pkg/loki"
	log "github.com/sirupsen/logrus"
)

// lokiHook forwards entries at or above minLevel. Shipping errors go to stderr, not
// back through logrus, so a broken Loki can't feed itself.
type lokiHook struct {
	shipper  *loki.Shipper
	minLevel log.Level
}

func (h *lokiHook) Fire(entry *log.Entry) error {
	fields := make(map[string]any, len(entry.Data))
	for key, value := range entry.Data {
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		fields[key] = value
	}

	h.shipper.Ship(loki.Entry{
		Time:    entry.Time,
		Level:   entry.Level.String(),
		Message: entry.Message,
		Fields:  fields,
	})
	return nil
}

func (h *lokiHook) Levels() []log.Level {
	var levels []log.Level
	for _, level := range log.AllLevels {
		if level <= h.minLevel {
			levels = append(levels, level)
		}
	}
	return levels
}

func newLokiHook(cfg config.LoggerConfig) (*lokiHook, error) {
	labels := map[string]string{}
	if cfg.AppName != "" {
		labels["app"] = cfg.AppName
	}

	shipper, err := loki.NewShipper(loki.Config{
		URL:           cfg.Loki.URL,
		Labels:        labels,
		Username:      cfg.Loki.Username,
		Password:      cfg.Loki.Password,
		TenantID:      cfg.Loki.TenantID,
		BatchSize:     cfg.Loki.BatchSize,
		FlushInterval: cfg.Loki.FlushInterval,
	}, func(err error) {
		_, _ = fmt.Fprintf(os.Stderr, "loki: %v\n", err)
	})
	if err != nil {
		return nil, err
	}

	minLevel := log.WarnLevel
	if cfg.Loki.MinLevel != "" {
		minLevel = parseLevel(cfg.Loki.MinLevel)
	}
	return &lokiHook{shipper: shipper, minLevel: minLevel}, nil
}

func (h *lokiHook) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.shipper.Close(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "loki: flush on shutdown: %v\n", err)
	}
	if dropped := h.shipper.Dropped(); dropped > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "loki: %d entries dropped\n", dropped)
	}
}
