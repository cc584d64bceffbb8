package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// handleArtifacts serves round artifacts (reveal art, puzzle crops, voice
// audio) from the data directory. Unlike a SPA handler there is no index
// fallback: a miss is a 404.
func handleArtifacts(dir string) http.HandlerFunc {
	fileServer := http.StripPrefix("/artifacts/", http.FileServer(http.Dir(dir)))

	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Clean(filepath.Base(r.URL.Path))
		if info, err := os.Stat(filepath.Join(dir, name)); err != nil || info.IsDir() {
			writeError(w, http.StatusNotFound, "artifact not found")
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}
