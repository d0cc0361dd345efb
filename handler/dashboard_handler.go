package handler

import (
	"fmt"
	"net/http"
)

// DashboardPage serves the shell the single-page frontend boots from. The
// interesting part is the gate in front of it, not the page itself.
func DashboardPage(title string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!doctype html><html><head><title>%s | StellarOne</title></head><body><div id="root"></div></body></html>`, title)
	})
}
