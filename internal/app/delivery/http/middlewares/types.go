package middlewares

import (
	"dococlock-service/internal/app/config"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	Enforcer       *casbin.Enforcer
}

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig, enforcer *casbin.Enforcer) *Middlewares {
	return &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		Enforcer:       enforcer,
	}
}
