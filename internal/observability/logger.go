package observability

import (
	"strings"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "app-vitrine-busca"

// NewLogger cria o logger da aplicação conforme ambiente e nível configurados
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(parseLogLevel(cfg.LogLevel))

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(
		zap.String("service", serviceName),
		zap.String("environment", cfg.Environment),
	), nil
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
