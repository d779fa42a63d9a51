//go:build statsview

package statsview

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Available reports whether the stats server was compiled in.
const Available = true

// Server wraps a statsview manager listening on a local address.
type Server struct {
	addr string
	mgr  *statsview.ViewManager
}

// New configures a server for addr. Nothing listens until Start.
func New(addr string) *Server {
	if addr == "" {
		addr = DefaultAddress
	}
	viewer.SetConfiguration(viewer.WithAddr(addr))

	return &Server{
		addr: addr,
		mgr:  statsview.New(),
	}
}

// Start serves in the background.
func (s *Server) Start() {
	go func() {
		if err := s.mgr.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Stats server failed", "addr", s.addr, "error", err)
		}
	}()

	slog.Info("Stats server started", "url", s.URL())
}

// Stop shuts the server down.
func (s *Server) Stop() {
	s.mgr.Stop()
}
