//go:build !statsview

package statsview

import "log/slog"

// Available reports whether the stats server was compiled in.
const Available = false

// Server is a placeholder for builds without the statsview tag.
type Server struct {
	addr string
}

func New(addr string) *Server {
	if addr == "" {
		addr = DefaultAddress
	}
	return &Server{addr: addr}
}

// Start logs that the stats server is missing from this build.
func (s *Server) Start() {
	slog.Warn("Stats server not available - build with -tags statsview to enable")
}

func (s *Server) Stop() {}
