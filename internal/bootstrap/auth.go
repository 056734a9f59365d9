package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/confide/confide/config"
	"github.com/confide/confide/internal/adapters/devauth"
	"github.com/confide/confide/internal/adapters/oidc"
	"github.com/confide/confide/internal/adapters/password"
	redisadapter "github.com/confide/confide/internal/adapters/redis"
	"github.com/confide/confide/internal/data"
	"github.com/confide/confide/internal/ports"
	"github.com/confide/confide/internal/service"
)

// AuthDeps contains the dependencies for building the auth service.
type AuthDeps struct {
	Auth config.AuthConfig
	// BaseURL is the externally visible origin used to derive the OAuth
	// callback URL.
	BaseURL     string
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService wires the auth service for the configured auth mode.
// Unlike optional subsystems, authentication is load-bearing here, so a
// broken configuration is a startup error rather than a disabled feature.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	if deps.DB == nil {
		return nil, errors.New("auth service requires a database connection")
	}
	if deps.RedisClient == nil {
		return nil, errors.New("auth service requires a redis client")
	}

	provider, err := buildProvider(deps)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:                     provider,
		Users:                        data.NewUserRepo(deps.DB),
		Sessions:                     redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:"),
		Hasher:                       password.NewBcryptHasher(deps.Auth.BcryptCost),
		Logger:                       deps.Logger,
		SessionTTL:                   deps.Auth.SessionTTL,
		RejectFederatedLocalConflict: deps.Auth.RejectFederatedLocal,
	}), nil
}

func buildProvider(deps AuthDeps) (ports.AuthProvider, error) {
	switch deps.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			Email:           deps.Auth.DevAuth.Email,
			Name:            deps.Auth.DevAuth.Name,
			SessionDuration: deps.Auth.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		if deps.Logger != nil {
			deps.Logger.Warn("mock auth provider enabled", "email", deps.Auth.DevAuth.Email)
		}
		return prov, nil

	case config.AuthModeOAuth:
		oauth := deps.Auth.OAuth
		if oauth.ClientID == "" || oauth.ClientSecret == "" {
			return nil, errors.New("AUTH_MODE=oauth requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  strings.TrimSuffix(deps.BaseURL, "/") + "/auth/google/secrets",
			Scope:        oauth.Scope,
			Issuer:       oauth.Issuer,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unknown auth mode %q", deps.Auth.Mode)
	}
}
