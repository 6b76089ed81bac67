package commands

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/idcscan/idcscan/internal/api"
	"github.com/idcscan/idcscan/internal/config"
	"github.com/idcscan/idcscan/internal/printer"
	"github.com/idcscan/idcscan/internal/session"
)

// loadConfig resolves the client configuration from --config or the
// conventional path.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

// openStore builds the configured session store. The returned closer is a
// no-op for the file backend and closes the connection for Redis. The Redis
// backend is pinged up front so a dead server fails here, not mid-command.
func openStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		store, err := session.NewRedisStore(&redis.Options{Addr: cfg.Store.RedisAddr}, cfg.Profile)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, printer.ErrorWithContext(
				"cannot reach session store",
				"The configured Redis session store did not respond.",
				map[string]string{
					"Server":  cfg.Store.RedisAddr,
					"Profile": cfg.Profile,
				},
				[]string{
					"Check that Redis is running at the configured address.",
					"Switch to the file backend:\n  idcscan --config <path> with store.backend: file",
				},
			)
		}
		return store, func() { store.Close() }, nil
	default:
		store, err := session.NewFileStore(filepath.Join(cfg.ProfileDir(), "session.yml"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func newAPIClient(cfg *config.Config) (*api.Client, error) {
	return api.NewClient(cfg.ServerURL, cfg.RequestTimeout.Std(), cfg.PredictTimeout.Std())
}

// requireVerified is the guard in front of every protected command. It
// consults the store fresh on each invocation; an unverified session is
// pointed at login, never at verify directly.
func requireVerified(ctx context.Context, store session.Store) (session.Session, error) {
	sess, err := session.RequireVerified(ctx, store)
	if err != nil {
		if errors.Is(err, session.ErrNotVerified) {
			return session.Session{}, printer.Error(
				"not logged in",
				"This command requires a verified session.",
				[]string{
					"Log in to an existing account:\n  idcscan login --username <name>",
					"Create an account:\n  idcscan register --username <name> --email <you@example.com>",
				},
			)
		}
		return session.Session{}, err
	}
	return sess, nil
}

// renderAPIError turns backend and transport failures into the CLI's error
// format, keeping a server-provided detail message verbatim when present.
func renderAPIError(err error, title string, suggestions []string) error {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		return printer.Error(title, apiErr.Error(), suggestions)
	case errors.Is(err, api.ErrTimeout):
		return printer.Error(title, "The request timed out. The server may be busy or unreachable.", suggestions)
	default:
		return printer.Error(title, err.Error(), suggestions)
	}
}
