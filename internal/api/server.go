package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"resume-chat/internal/config"
	"resume-chat/internal/helper"
	"resume-chat/internal/models"
	"resume-chat/internal/rag"
)

const (
	sessionCookie  = "resume_chat_session"
	maxRequestBody = 64 << 10
)

// Answerer is the query side of the router.
type Answerer interface {
	Answer(ctx context.Context, query string, sess rag.Session) (models.Reply, rag.Session)
}

// Server exposes the chat page and its JSON API.
type Server struct {
	cfg      config.ServerConfig
	router   Answerer
	sessions *SessionStore
	feedback *FeedbackLog
	markdown goldmark.Markdown
	handler  http.Handler
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer     string       `json:"answer"`
	HTML       string       `json:"html"`
	Kind       string       `json:"kind"`
	Category   string       `json:"category,omitempty"`
	MissStreak int          `json:"miss_streak"`
	Sources    []chatSource `json:"sources,omitempty"`
}

type chatSource struct {
	Source     string  `json:"source"`
	Page       int     `json:"page"`
	Chunk      int     `json:"chunk"`
	Similarity float32 `json:"similarity"`
}

type feedbackRequest struct {
	Rating   string `json:"rating"`
	Question string `json:"question"`
}

func New(router Answerer, cfg config.ServerConfig) *Server {
	s := &Server{
		cfg:      cfg,
		router:   router,
		sessions: NewSessionStore(cfg.SessionTTL),
		feedback: NewFeedbackLog(cfg.FeedbackLog),
		markdown: goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("Serving chat")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/feedback", s.handleFeedback)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	id, err := s.sessionID(w, r)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var reply models.Reply
	sess := s.sessions.Do(id, func(sess rag.Session) rag.Session {
		var next rag.Session
		reply, next = s.router.Answer(r.Context(), req.Question, sess)
		return next
	})

	s.writeJSON(w, http.StatusOK, chatResponse{
		Answer:     reply.Text,
		HTML:       s.render(reply.Text),
		Kind:       string(reply.Kind),
		Category:   reply.Category,
		MissStreak: sess.MissStreak,
		Sources:    transformSources(reply.Sources),
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req feedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("question is required"))
		return
	}
	if err := s.feedback.Append(req.Rating, req.Question); err != nil {
		if errors.Is(err, ErrInvalidRating) {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("record feedback: %w", err))
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "thanks for the feedback"})
}

// sessionID returns the caller's session id, issuing a new cookie when the
// request carries none or a malformed one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(sessionCookie); err == nil && helper.IsUUID(c.Value) {
		return c.Value, nil
	}
	id, err := helper.GenerateUUID()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}

func (s *Server) render(text string) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(text), &buf); err != nil {
		log.Warn().Err(err).Msg("Rendering answer failed")
		return ""
	}
	return buf.String()
}

func transformSources(chunks []models.ScoredChunk) []chatSource {
	if len(chunks) == 0 {
		return nil
	}
	sources := make([]chatSource, len(chunks))
	for i, c := range chunks {
		sources[i] = chatSource{
			Source:     c.SourceFilename,
			Page:       c.PageNumber,
			Chunk:      c.ChunkID,
			Similarity: c.Similarity,
		}
	}
	return sources
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed, use %s", allowed))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Encoding response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	log.Warn().Err(err).Int("status", status).Msg("API error")
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
