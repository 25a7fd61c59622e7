package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reparto-app/reparto-sales-service/internal/auth"
	"github.com/reparto-app/reparto-sales-service/internal/config"
	"github.com/reparto-app/reparto-sales-service/internal/handlers"
	"github.com/reparto-app/reparto-sales-service/internal/middleware"
	"github.com/reparto-app/reparto-sales-service/internal/repository"
)

// Server wires the gin router to the HTTP handlers.
type Server struct {
	config     *config.Config
	router     *gin.Engine
	handlers   *handlers.Handlers
	jwtManager *auth.JWTManager
	operators  repository.OperatorRepository
	httpServer *http.Server
}

// New creates a configured server.
func New(h *handlers.Handlers, jwtManager *auth.JWTManager, operators repository.OperatorRepository, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	s := &Server{
		config:     cfg,
		router:     router,
		handlers:   h,
		jwtManager: jwtManager,
		operators:  operators,
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/version", s.handlers.Version)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	v1.POST("/auth/register", s.handlers.Register)
	v1.POST("/auth/login", s.handlers.Login)

	authed := v1.Group("")
	authed.Use(middleware.RequireAuth(s.jwtManager, s.operators))
	{
		authed.GET("/auth/me", s.handlers.Me)

		authed.GET("/customers", s.handlers.ListCustomers)
		authed.POST("/customers", s.handlers.CreateCustomer)
		authed.GET("/customers/:id", s.handlers.GetCustomer)
		authed.PUT("/customers/:id", s.handlers.UpdateCustomer)
		authed.DELETE("/customers/:id", s.handlers.DeleteCustomer)

		authed.GET("/products", s.handlers.ListProducts)
		authed.POST("/products", s.handlers.CreateProduct)
		authed.GET("/products/:id", s.handlers.GetProduct)
		authed.PUT("/products/:id", s.handlers.UpdateProduct)
		authed.DELETE("/products/:id", s.handlers.DeleteProduct)

		authed.GET("/quotes", s.handlers.ListQuotes)
		authed.POST("/quotes", s.handlers.SaveQuote)
		authed.DELETE("/quotes/:id", s.handlers.DeleteQuote)
		authed.POST("/quotes/:id/promote", s.handlers.PromoteQuote)

		authed.GET("/orders", s.handlers.ListOrders)
		authed.POST("/orders", s.handlers.CreateOrder)
		authed.GET("/orders/:id", s.handlers.GetOrder)
		authed.POST("/orders/:id/deliver", s.handlers.DeliverOrder)
		authed.POST("/orders/:id/cancel", s.handlers.CancelOrder)

		authed.GET("/sales", s.handlers.ListSales)
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
