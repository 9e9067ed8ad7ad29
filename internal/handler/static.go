package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/qx/budget_robot/internal/types"
)

// StaticHandler serves the web app: index.html at the root and files under
// /static/. Everything else is a JSON 404.
func StaticHandler(dir string) http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.Dir(dir)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
		case strings.HasPrefix(r.URL.Path, "/static/"):
			files.ServeHTTP(w, r)
		default:
			httpx.WriteJsonCtx(r.Context(), w, http.StatusNotFound, types.Response{
				Status:  types.StatusError,
				Message: "not found: " + r.URL.Path,
			})
		}
	})
}
