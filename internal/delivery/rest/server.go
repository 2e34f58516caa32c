package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	http   *http.Server
	logger *zap.Logger
}

func NewServer(addr string, handlers *Handlers, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/products", handlers.AddProduct)
	router.GET("/products", handlers.ListProducts)
	router.DELETE("/products/:id", handlers.RemoveProduct)
	router.PUT("/products/:id/target", handlers.SetTarget)
	router.GET("/products/:id/history", handlers.GetHistory)

	return &Server{
		http:   &http.Server{Addr: addr, Handler: router},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("maintenance server listening", zap.String("addr", s.http.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
