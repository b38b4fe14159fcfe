package playsvc

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// Server serves the development play service
type Server struct {
	httpServer *http.Server
}

// NewServer creates a play service listening on port
func NewServer(port int, svc *Service) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// Start blocks serving until Stop is called
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
