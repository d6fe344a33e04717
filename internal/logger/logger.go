package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/lukeperry/ssu-career-connect/internal/config"
	log "github.com/sirupsen/logrus"
)

var (
	logFile *os.File
	lokiLog *lokiHook
)

func Setup(cfg config.LoggerConfig) {

	logDir := filepath.Dir(cfg.OutputFile)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	var err error
	logFile, err = os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)

	customFormatter := &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000 -0700",
	}
	log.SetFormatter(customFormatter)
	log.SetLevel(parseLevel(cfg.LogLevel))

	if cfg.AppName != "" {
		log.AddHook(&appNameHook{appName: cfg.AppName})
	}
	log.AddHook(&errorTypeHook{})

	if cfg.Loki.Enabled() {
		hook, err := newLokiHook(cfg)
		if err != nil {
			log.Errorf("Loki logging disabled: %v", err)
			return
		}
		lokiLog = hook
		log.AddHook(lokiLog)
		log.Info("Loki logging enabled")
	}
}

func parseLevel(level config.LogLevel) log.Level {
	switch level {
	case config.LevelInfo:
		return log.InfoLevel
	case config.LevelDebug:
		return log.DebugLevel
	case config.LevelWarning:
		return log.WarnLevel
	case config.LevelError:
		return log.ErrorLevel
	case config.LevelFatal:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

func Cleanup() {
	if lokiLog != nil {
		removeHook(lokiLog)
		lokiLog.close()
		lokiLog = nil
	}
	if logFile != nil {
		_ = logFile.Close()
	}
}
