package logger

import (
	"mcsr-tracker/internal/config"
	"os"

	"github.com/rs/zerolog"
)

func New(cfg *config.Config) zerolog.Logger {
	return SetLevel(cfg.Level())
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}
