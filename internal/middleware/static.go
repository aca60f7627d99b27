package middleware

import (
	"net/http"
	"os"
	"path/filepath"
)

const fallbackSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200"><rect width="200" height="200" fill="#1f2937"/><path d="M40 140h120v20H40zM55 80h90v60H55z" fill="#4b5563"/><path d="M70 95h20v20H70zM110 95h20v20h-20z" fill="#9ca3af"/><text x="100" y="180" text-anchor="middle" font-family="Arial" font-size="14" fill="#9ca3af">ROOM</text></svg>`

// StaticFileServer serves room category images with long-lived cache headers,
// falling back to an inline placeholder when the file is missing.
func StaticFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))

		if _, err := os.Stat(path); err == nil {
			w.Header().Set("Cache-Control", "public, max-age=2592000")
			http.ServeFile(w, r, path)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write([]byte(fallbackSVG))
	})
}

// SecurityHeaders sets baseline response hardening headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
