package web

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/unrolled/render"

	"github.com/aweist/schedule-importer/converter"
)

type Options struct {
	Port        string
	CORSOrigins []string
	MaxBytes    int64
}

type Server struct {
	server *http.Server
}

func NewServer(opts Options, ctrl converter.C) *Server {
	router := getRouter(ctrl, newRender(), opts)

	return &Server{
		server: &http.Server{
			Addr:              ":" + opts.Port,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe blocks until the server stops. Closing shutdown drains
// in-flight requests; wg is marked done once the drain finishes.
func (s *Server) ListenAndServe(shutdown chan bool, wg *sync.WaitGroup) error {
	go func() {
		defer wg.Done()

		<-shutdown

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down web server: %v", err)
		}
	}()

	log.Printf("Starting schedule importer API on http://localhost%s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func newRender() *render.Render {
	return render.New(render.Options{
		IndentJSON: true,
	})
}
