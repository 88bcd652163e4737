package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/layout"
)

var serveAddr string

func addServeFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serveAddr, "serve", "", "Serve the feedback page on this address (e.g. localhost:8080)")
}

func feedbackPath(username, assignment string) string {
	return fmt.Sprintf("/feedback/%s/%s", username, assignment)
}

// newFeedbackRouter serves rendered feedback from the course's feedback tree.
// When home is set, / redirects to it.
func newFeedbackRouter(c layout.Course, home string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	if home != "" {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, home, http.StatusFound)
		})
	}
	r.Get("/feedback/{username}/{assignment}", func(w http.ResponseWriter, req *http.Request) {
		username := chi.URLParam(req, "username")
		assignment := chi.URLParam(req, "assignment")
		if !safeName(username) || !safeName(assignment) {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		http.ServeFile(w, req, c.FeedbackHTML(username, assignment))
	})
	return r
}

func safeName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// serveFeedback blocks serving one student's feedback until the command's context ends.
func serveFeedback(cmd *cobra.Command, addr, username, assignment string) error {
	home := feedbackPath(username, assignment)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newFeedbackRouter(course(), home),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving feedback at http://%s%s (Ctrl+C to stop)\n", addr, home)
	log.Info("feedback server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
