// Package cors adiciona os headers CORS do endpoint de auditoria e responde
// o preflight (OPTIONS) sem chegar no handler.
package cors

import (
	"net/http"
	"strings"
)

type Options struct {
	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
}

// DefaultOptions: qualquer origem, POST/OPTIONS e Content-Type.
func DefaultOptions() Options {
	return Options{
		AllowOrigin:  "*",
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
	}
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	def := DefaultOptions()
	if opts.AllowOrigin == "" {
		opts.AllowOrigin = def.AllowOrigin
	}
	if len(opts.AllowMethods) == 0 {
		opts.AllowMethods = def.AllowMethods
	}
	if len(opts.AllowHeaders) == 0 {
		opts.AllowHeaders = def.AllowHeaders
	}
	methods := strings.Join(opts.AllowMethods, ", ")
	headers := strings.Join(opts.AllowHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", opts.AllowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)

			// preflight: 200 sem corpo
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
