// Package httpapi exposes the auth service over HTTP: the public
// register/login endpoints and the bearer-token filter protecting
// everything else.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jhontaff/JWT-Authentication/internal/logging"
	"github.com/jhontaff/JWT-Authentication/internal/server/accounts"
	"github.com/jhontaff/JWT-Authentication/internal/server/auth"
	"github.com/jhontaff/JWT-Authentication/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address     string
	users       *users.Service
	codec       *auth.Codec
	accounts    accounts.Repository
	corsOrigins []string
	logger      logging.Logger
}

func NewServer(address string, us *users.Service, codec *auth.Codec, accountRepo accounts.Repository, corsOrigins []string, logger logging.Logger) *Server {
	return &Server{
		address:     address,
		users:       us,
		codec:       codec,
		accounts:    accountRepo,
		corsOrigins: corsOrigins,
		logger:      logger.With("module", "http_server"),
	}
}

// Router builds the gin engine. Register, login, and the health probe are
// the public allow-list; every other route sits behind authRequired.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.corsOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		public := api.Group("/user")
		{
			public.POST("/register", s.handleRegister)
			public.POST("/login", s.handleLogin)
		}

		protected := api.Group("")
		protected.Use(s.authRequired())
		{
			protected.GET("/user/me", s.handleMe)
		}
	}

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
