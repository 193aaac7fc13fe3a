package logger

import (
	"io"
	"os"
	"time"

	"airpark/config"
	"airpark/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs the global zerolog logger. Production writes JSON lines,
// every other environment gets the human readable console writer.
func InitLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	if cfg != nil && cfg.Server.Env == constant.ServerEnvProduction {
		output = os.Stdout
	}

	log.Logger = zerolog.New(output).With().Timestamp().Str("service", appName(cfg)).Logger()
	log.Trace().Msg("Zerolog initialized.")

	SetLogLevel(cfg)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies SERVER_LOG_LEVEL. Empty means info, unknown values fall back to trace.
func SetLogLevel(cfg *config.Config) {
	raw := ""
	if cfg != nil {
		raw = cfg.Server.LogLevel
	}

	if raw == constant.Empty {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)

		return
	}

	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		level = zerolog.TraceLevel
		log.Warn().Str("loglevel", raw).Msg("Unknown log level, using trace.")
	}

	zerolog.SetGlobalLevel(level)
}

func appName(cfg *config.Config) string {
	if cfg == nil || cfg.App.Name == constant.Empty {
		return "airpark"
	}

	return cfg.App.Name
}
