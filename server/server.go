// Package server serves a recordings directory over HTTP so WAV files play
// directly in the browser and the generated gallery is reachable from
// other devices in the field.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mothgrams/internal/logging"
)

// Server is the gallery HTTP server.
type Server struct {
	dir  string
	port int
	log  *logging.Logger
}

// New creates a Server for the given recordings directory.
func New(dir string, port int, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{dir: dir, port: port, log: log}
}

// FindGallery looks for a generated gallery page under dir, up to two
// levels deep, and returns its path relative to dir ("" when none exists).
func FindGallery(dir string) string {
	patterns := []string{"index.html", "*gallery*.html", "*/index.html", "*/*gallery*.html"}
	for _, pattern := range patterns {
		matches, _ := filepath.Glob(filepath.Join(dir, pattern))
		for _, m := range matches {
			if rel, err := filepath.Rel(dir, m); err == nil {
				return rel
			}
		}
	}
	return ""
}

// CountWAVs counts WAV files under dir recursively.
func CountWAVs(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".wav") {
			count++
		}
		return nil
	})
	return count
}

// Handler builds the HTTP handler: static files with audio-friendly
// headers, /metrics for Prometheus, 204 for favicon probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.Handle("/", http.FileServer(http.Dir(s.dir)))
	return s.middleware(mux)
}

// isAudio reports whether a request path points at an audio file.
func isAudio(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".wav" || ext == ".mp3" || ext == ".flac"
}

// middleware adds CORS, audio caching headers, request logging and metrics.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		kind := "page"
		if isAudio(r.URL.Path) {
			kind = "audio"
			// Let the browser stream and cache recordings; range support
			// comes from http.FileServer.
			w.Header().Set("Cache-Control", "max-age=3600")
		} else if r.URL.Path == "/metrics" {
			kind = "metrics"
		}

		cw := &countingWriter{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(cw, r)

		requestsTotal.WithLabelValues(kind).Inc()
		if kind == "audio" {
			audioBytesServed.Add(float64(cw.bytes))
		}
		s.log.Debug("request",
			zap.String("path", r.URL.Path),
			zap.Int("status", cw.status()),
			zap.Int64("bytes", cw.bytes),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

type countingWriter struct {
	http.ResponseWriter
	bytes      int64
	statusCode int
}

func (c *countingWriter) WriteHeader(code int) {
	c.statusCode = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.ResponseWriter.Write(b)
	c.bytes += int64(n)
	return n, err
}

func (c *countingWriter) status() int {
	if c.statusCode == 0 {
		return http.StatusOK
	}
	return c.statusCode
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully. Clients that closed mid-stream are normal for audio playback
// and are not treated as errors.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("gallery server listening",
		zap.Int("port", s.port), zap.String("dir", s.dir))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
