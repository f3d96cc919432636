// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipPool = sync.Pool{
	New: func() any { return gzip.NewWriter(io.Discard) },
}

// gzipWriter sends the body through a pooled gzip stream. Headers are
// rewritten on the first WriteHeader or Write.
type gzipWriter struct {
	http.ResponseWriter
	zw      *gzip.Writer
	started bool
}

func (g *gzipWriter) WriteHeader(status int) {
	if g.started {
		return
	}
	g.started = true
	h := g.Header()
	h.Set("Content-Encoding", "gzip")
	h.Add("Vary", "Accept-Encoding")
	h.Del("Content-Length")
	g.ResponseWriter.WriteHeader(status)
}

func (g *gzipWriter) Write(p []byte) (int, error) {
	g.WriteHeader(http.StatusOK)
	return g.zw.Write(p)
}

// Flush pushes buffered compressed bytes to the client.
func (g *gzipWriter) Flush() {
	g.WriteHeader(http.StatusOK)
	_ = g.zw.Flush()
	if f, ok := g.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (g *gzipWriter) Unwrap() http.ResponseWriter {
	return g.ResponseWriter
}

// wantsGzip reports whether r should get a gzip body. WebSocket handshakes
// and /metrics (the Prometheus handler encodes for itself) never do.
func wantsGzip(r *http.Request) bool {
	if r.URL.Path == "/metrics" || strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return false
	}
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

// Compression gzips response bodies for clients that accept it.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !wantsGzip(r) {
			next.ServeHTTP(w, r)
			return
		}

		zw := gzipPool.Get().(*gzip.Writer)
		zw.Reset(w)
		gw := &gzipWriter{ResponseWriter: w, zw: zw}
		defer func() {
			if gw.started {
				_ = zw.Close()
			}
			zw.Reset(io.Discard)
			gzipPool.Put(zw)
		}()

		next.ServeHTTP(gw, r)
	})
}
