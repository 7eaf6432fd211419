package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/usercrud/internal/service"
	"github.com/msomdec/usercrud/internal/view"
)

// HandleHome renders the user overview page.
func HandleHome(users *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := users.FindAll(r.Context())
		if err != nil {
			slog.Error("list users for home page", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := view.HomePage(all).Render(r.Context(), w); err != nil {
			slog.Error("render home page", "error", err)
		}
	}
}
