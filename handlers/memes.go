// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-elect/render"
)

// RevealMeme handles GET /memes/{id}
// Unknown IDs get 204 so pages without that trigger do nothing.
func RevealMeme(w http.ResponseWriter, r *http.Request) {
	fragment, ok := render.Meme(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(fragment)); err != nil {
		slog.Error("failed to write meme", "error", err)
	}
}
