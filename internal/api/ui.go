package api

import (
	_ "embed"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed ui/index.html
var indexHTML []byte

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexHTML); err != nil {
		log.Warn().Err(err).Msg("Writing chat page failed")
	}
}
