package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/quirino/oauth-code-service/internal/application"
	"github.com/quirino/oauth-code-service/internal/domain"
	"github.com/quirino/oauth-code-service/internal/infrastructure/clock"
	"github.com/quirino/oauth-code-service/internal/infrastructure/config"
	"github.com/quirino/oauth-code-service/internal/infrastructure/database"
	"github.com/quirino/oauth-code-service/internal/infrastructure/jwt"
	"github.com/quirino/oauth-code-service/internal/infrastructure/password"
	"github.com/quirino/oauth-code-service/internal/infrastructure/random"
	"github.com/quirino/oauth-code-service/internal/infrastructure/repository"
	"github.com/quirino/oauth-code-service/internal/interfaces/http/handlers"
	"github.com/quirino/oauth-code-service/internal/interfaces/http/middleware/auth"
	"github.com/quirino/oauth-code-service/internal/interfaces/http/middleware/ratelimit"
	"github.com/quirino/oauth-code-service/internal/interfaces/http/middleware/requestid"
)

type Router struct {
	router *chi.Mux
	db     *database.Postgres
}

func NewRouter(
	db *database.Postgres,
	cfg *config.Config,
	logger *zap.Logger,
) (*Router, error) {
	jwtService, err := jwt.NewService(cfg.JWTKeyPath, cfg.JWTAccessDuration, logger)
	if err != nil {
		return nil, err
	}

	systemClock := clock.New()
	randomSource := random.New()
	hasher := password.NewBcryptHasher()

	clientRepo := repository.NewClientRepository(db, logger)
	consentRepo := repository.NewConsentRepository(db, logger)
	codeRepo := repository.NewCodeRepository(db, logger)

	validator := application.NewClientValidator(clientRepo, logger)
	consentGate := application.NewConsentGate(consentRepo, systemClock, cfg.ConsentTTL, logger)
	codeIssuer := application.NewCodeIssuer(validator, consentGate, codeRepo, systemClock, randomSource, cfg.CodeTTL, logger)
	tokenExchanger := application.NewTokenExchanger(codeRepo, clientRepo, hasher, systemClock, logger)
	consentService := application.NewConsentService(consentRepo, systemClock, logger)
	clientService := application.NewClientService(clientRepo, hasher, randomSource, systemClock, logger)

	if cfg.SystemClientRole != "" {
		_, secret, err := clientService.EnsureSystemClient(context.Background(),
			cfg.SystemClientRole, cfg.SystemClientRole,
			[]string{cfg.SystemClientRedirectURI},
			[]string{domain.GrantTypeAuthorizationCode})
		if err != nil {
			return nil, err
		}
		if secret != "" {
			logger.Info("system client secret generated, shown once",
				zap.String("system_role", cfg.SystemClientRole),
				zap.String("client_secret", secret))
		}
	}

	authMiddleware := auth.NewAuthMiddleware(jwtService, logger)
	oauthHandler := handlers.NewOAuthHandler(codeIssuer, tokenExchanger, jwtService, logger)
	consentHandler := handlers.NewConsentHandler(consentGate, consentService, logger)
	clientHandler := handlers.NewClientHandler(clientService, logger)

	router := createRouter()

	rateLimiter := ratelimit.NewRateLimiter(100, 200, 3*time.Minute)
	router.Use(rateLimiter.Middleware)

	// Health check endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := db.Ping(); err != nil {
				logger.Error("Database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Database connection failed"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})

		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Alive"))
		})
	})

	router.Route("/api", func(r chi.Router) {
		// Token redemption authenticates by grant, not bearer token
		r.Post("/oauth2/token", oauthHandler.TokenHandler)

		// Routes acting on behalf of an authenticated user
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticator)

			r.Get("/oauth2/authorize", oauthHandler.AuthorizeHandler)

			r.Post("/consents", consentHandler.DecideHandler)
			r.Get("/consents", consentHandler.ListHandler)
			r.Delete("/consents/{clientID}", consentHandler.RevokeHandler)

			r.Post("/oauth2/clients", clientHandler.RegisterHandler)
			r.Put("/oauth2/clients/{clientID}", clientHandler.UpdateHandler)
			r.Post("/oauth2/clients/{clientID}/rotate-secret", clientHandler.RotateSecretHandler)
			r.Delete("/oauth2/clients/{clientID}", clientHandler.DeactivateHandler)
		})
	})

	return &Router{router: router, db: db}, nil
}

func createRouter() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(requestid.Propagate)
	router.Use(middleware.RealIP)
	router.Use(middleware.Timeout(60 * time.Second))

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
