package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/confide/confide/config"
	"github.com/confide/confide/internal/data"
	"github.com/confide/confide/internal/service"
)

// ServiceDeps contains the shared infrastructure the service layer is
// built on.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the application services handed to the HTTP layer.
type ServiceContainer struct {
	Auth    *service.AuthService
	Secrets *service.SecretService
}

// NewServices wires the service layer from shared infrastructure.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	authSvc, err := BuildAuthService(AuthDeps{
		Auth:        deps.Config.Auth,
		BaseURL:     deps.Config.HTTP.BaseURL,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Logger:      deps.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	return ServiceContainer{
		Auth:    authSvc,
		Secrets: service.NewSecretService(data.NewUserRepo(deps.DB)),
	}, nil
}
