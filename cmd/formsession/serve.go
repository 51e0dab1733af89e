package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formsession/pkg/httpapi"
	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/renderers/html"
	"github.com/goliatone/go-formsession/pkg/renderers/text"
)

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve form sessions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := buildHandler(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), resolveAddr(cmd), handler)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides "+envAddr+" env var, default "+defaultAddr+")")
	cmd.Flags().String("base-path", "/", "Path prefix the session routes are mounted under")
	cmd.Flags().String("form", "", "Initial form type for new sessions (defaults to the first registered form)")
	cmd.Flags().String("theme-variant", "", "Theme variant for the HTML page (e.g. dark)")
	cmd.Flags().String("templates-dir", "", "Directory holding templates/page.tpl to replace the bundled page")
	cmd.Flags().String("title", "", "Page title shown while no form is selected")
	cmd.Flags().String("cookie-name", httpapi.DefaultCookieName, "Name of the session cookie")
	cmd.Flags().Int64("max-body", httpapi.DefaultMaxBodyBytes, "Maximum request body size in bytes")
	cmd.Flags().Int("max-sessions", httpapi.DefaultMaxSessions, "Maximum number of live browser sessions")
	cmd.Flags().Duration("session-ttl", httpapi.DefaultSessionTTL, "Drop sessions idle for longer than this (0 keeps them until evicted)")
	return cmd
}

// resolveAddr returns --addr, then FORMSESSION_ADDR, then the default.
func resolveAddr(cmd *cobra.Command) string {
	if addr, _ := cmd.Flags().GetString("addr"); strings.TrimSpace(addr) != "" {
		return strings.TrimSpace(addr)
	}
	if addr := strings.TrimSpace(os.Getenv(envAddr)); addr != "" {
		return addr
	}
	return defaultAddr
}

func buildHandler(cmd *cobra.Command) (http.Handler, error) {
	reg, err := loadRegistry(cmd)
	if err != nil {
		return nil, err
	}
	formType, err := initialFormType(cmd, reg)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	variant, _ := flags.GetString("theme-variant")
	templatesDir, _ := flags.GetString("templates-dir")
	title, _ := flags.GetString("title")
	page, err := html.New(
		html.WithTheme(html.DefaultTheme(), variant),
		html.WithTemplatesDir(templatesDir),
		html.WithPageTitle(title),
	)
	if err != nil {
		return nil, err
	}

	cookieName, _ := flags.GetString("cookie-name")
	maxBody, _ := flags.GetInt64("max-body")
	maxSessions, _ := flags.GetInt("max-sessions")
	sessionTTL, _ := flags.GetDuration("session-ttl")
	basePath, _ := flags.GetString("base-path")

	mux := http.NewServeMux()
	pattern, err := httpapi.RegisterRoutes(mux, basePath, reg,
		httpapi.WithDefaultFormType(formType),
		httpapi.WithRenderers(render.NewRegistry(page, text.New())),
		httpapi.WithCookieName(cookieName),
		httpapi.WithMaxBodyBytes(maxBody),
		httpapi.WithSessionLimits(maxSessions, sessionTTL),
	)
	if err != nil {
		return nil, err
	}
	log.Printf("formsession: %d form types mounted at %s", reg.Len(), pattern)
	return mux, nil
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("formsession: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Printf("formsession: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
