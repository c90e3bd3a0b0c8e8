package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Runner triggers one triage run
type Runner interface {
	Run(ctx context.Context, instruction string) (string, error)
}

// folderPageSize caps the folder listing; browsing, not pagination.
const folderPageSize = 50

// Server is the HTML front end for triggering runs and browsing folders
type Server struct {
	runner     Runner
	open       core.MailboxOpener
	logger     *zap.Logger
	tmpl       *template.Template
	httpServer *http.Server
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, runner Runner, open core.MailboxOpener, logger *zap.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		runner: runner,
		open:   open,
		logger: logger,
		tmpl:   tmpl,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /run", s.handleRun)
	mux.HandleFunc("GET /folders", s.handleFolders)
	mux.HandleFunc("GET /folder/{id}", s.handleFolder)
	mux.HandleFunc("GET /email/{id}", s.handleEmail)

	s.httpServer = &http.Server{
		Addr:    cfg.GetServer().ListenAddress,
		Handler: mux,
	}

	return s, nil
}

// Handler exposes the route table for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the web server
func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("address", s.httpServer.Addr))
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Web server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop stops the web server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

type indexData struct {
	Notice string
	Kind   string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Notice: r.URL.Query().Get("notice"),
		Kind:   r.URL.Query().Get("kind"),
	}
	s.render(w, "index.html", data)
}

// handleRun triggers one pipeline run and redirects back to the index with
// the report (or the propagated error) as a transient notice.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	instruction := r.FormValue("custom_prompt")

	report, err := s.runner.Run(r.Context(), instruction)
	if err != nil {
		s.logger.Error("Triage run failed", zap.Error(err))
		s.redirectNotice(w, r, "danger", fmt.Sprintf("Error: %s", err))
		return
	}
	s.redirectNotice(w, r, "success", report)
}

type foldersData struct {
	Labels []core.Label
}

func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	mailbox, err := s.open(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	labels, err := mailbox.ListLabels(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.render(w, "folders.html", foldersData{Labels: labels})
}

type folderData struct {
	LabelID  string
	Messages []*core.Message
}

func (s *Server) handleFolder(w http.ResponseWriter, r *http.Request) {
	labelID := r.PathValue("id")

	mailbox, err := s.open(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	messages, err := mailbox.ListByLabel(r.Context(), labelID, folderPageSize)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.render(w, "folder.html", folderData{LabelID: labelID, Messages: messages})
}

type emailData struct {
	GmailLink string
}

// handleEmail renders a deep link into Gmail's own web interface rather
// than an in-app viewer.
func (s *Server) handleEmail(w http.ResponseWriter, r *http.Request) {
	msgID := r.PathValue("id")
	s.render(w, "email.html", emailData{
		GmailLink: fmt.Sprintf("https://mail.google.com/mail/u/0/#all/%s", url.PathEscape(msgID)),
	})
}

func (s *Server) redirectNotice(w http.ResponseWriter, r *http.Request, kind, notice string) {
	q := url.Values{}
	q.Set("kind", kind)
	q.Set("notice", notice)
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Template render failed", zap.String("template", name), zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("Mailbox request failed", zap.Error(err))
	http.Error(w, fmt.Sprintf("Error: %s", err), http.StatusBadGateway)
}
