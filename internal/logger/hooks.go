package logger

import (
	"github.com/lukeperry/ssu-career-connect/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const ErrorTypeField = "error_type"

const (
	ErrorTypeDb         = "db"
	ErrorTypeTextModel  = "text_model"
	ErrorTypeApi        = "api"
	ErrorTypeEvaluation = "evaluation"
)

type appNameHook struct {
	appName string
}

func (h *appNameHook) Fire(entry *log.Entry) error {
	entry.Data["app"] = h.appName
	return nil
}

func (h *appNameHook) Levels() []log.Level {
	return log.AllLevels
}

// errorTypeHook feeds matcher_errors_total. A warning only counts when it carries
// an error type: that is how a text model failure recovered by the lexical
// fallback is reported.
type errorTypeHook struct{}

func (h *errorTypeHook) Fire(entry *log.Entry) error {
	errorType, tagged := entry.Data[ErrorTypeField].(string)
	switch {
	case tagged:
	case entry.Level == log.WarnLevel:
		return nil
	default:
		errorType = "unknown"
	}

	metrics.ErrorsCounter.WithLabelValues(errorType).Inc()
	return nil
}

func (h *errorTypeHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}
}

// removeHook unregisters hook from the standard logger, leaving the others in place.
func removeHook(hook log.Hook) {
	kept := make(log.LevelHooks)
	for level, hooks := range log.StandardLogger().Hooks {
		for _, h := range hooks {
			if h != hook {
				kept[level] = append(kept[level], h)
			}
		}
	}
	log.StandardLogger().ReplaceHooks(kept)
}
