package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-light/internal/config"
)

// Setup applies cfg to every logger. Development mode always logs at debug
// level. When cfg.Log.File is set, entries are also written as JSON to a
// size-rotated file.
func Setup(cfg *config.Config, loggers ...*logrus.Logger) error {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if cfg.Development() {
		level = logrus.DebugLevel
	}

	var hook logrus.Hook
	if cfg.Log.File != "" {
		hook, err = rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return fmt.Errorf("unable to open log file %s: %w", cfg.Log.File, err)
		}
	}

	for _, log := range loggers {
		log.SetLevel(level)
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
		if hook != nil {
			log.AddHook(hook)
		}
	}
	return nil
}
