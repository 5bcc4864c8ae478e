package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

// Sites com "slow" no host viram PageSpeed ruim; "unknown" não é citado pelos modelos.
const goodSiteHTML = `<!DOCTYPE html>
<html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Organization","name":"Sandbox"}</script>
</head><body><h1>Sandbox</h1></body></html>`

const bareSiteHTML = `<!DOCTYPE html><html><body><h1>Sem marcação</h1></body></html>`

func newSandbox(logger *slog.Logger) http.Handler {
	var emailSeq atomic.Int64

	r := chi.NewRouter()

	r.Get("/site/good", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(goodSiteHTML))
	})
	r.Get("/site/bare", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(bareSiteHTML))
	})

	r.Get("/pagespeed", func(w http.ResponseWriter, req *http.Request) {
		target := req.URL.Query().Get("url")
		score, speed, viewport := 0.95, 1800.0, 1.0
		if strings.Contains(target, "slow") {
			score, speed, viewport = 0.35, 7400, 0
		}
		logger.Debug("pagespeed called", "url", target)
		writeJSON(w, http.StatusOK, map[string]any{
			"lighthouseResult": map[string]any{
				"categories": map[string]any{"performance": map[string]any{"score": score}},
				"audits": map[string]any{
					"speed-index": map[string]any{"numericValue": speed},
					"viewport":    map[string]any{"score": viewport},
				},
			},
		})
	})

	r.Post("/v1/chat/completions", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || len(body.Messages) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"message": "bad request"}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "chatcmpl-sandbox",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": answerFor(body.Messages[0].Content)},
			}},
		})
	})

	// modelo e método chegam no mesmo segmento: gemini-pro:generateContent
	r.Post("/gemini/models/{call}", func(w http.ResponseWriter, req *http.Request) {
		call := chi.URLParam(req, "call")
		if !strings.HasSuffix(call, ":generateContent") {
			http.NotFound(w, req)
			return
		}
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || len(body.Contents) == 0 || len(body.Contents[0].Parts) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad request"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]any{{"text": answerFor(body.Contents[0].Parts[0].Text)}}},
			}},
		})
	})

	r.Post("/resend/emails", func(w http.ResponseWriter, req *http.Request) {
		if !strings.HasPrefix(req.Header.Get("Authorization"), "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "missing api key"})
			return
		}
		var body struct {
			To      []string `json:"to"`
			Subject string   `json:"subject"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		id := fmt.Sprintf("sandbox-%d", emailSeq.Add(1))
		logger.Info("email accepted", "id", id, "to", strings.Join(body.To, ","), "subject", body.Subject)
		writeJSON(w, http.StatusOK, map[string]any{"id": id})
	})

	return r
}

// answerFor ecoa o domínio do prompt, a menos que ele contenha "unknown".
func answerFor(prompt string) string {
	const marker = "offered by "
	i := strings.Index(prompt, marker)
	if i < 0 {
		return "I can't help with that."
	}
	domain, _, _ := strings.Cut(prompt[i+len(marker):], ". ")
	if strings.Contains(domain, "unknown") {
		return "I could not find reliable information about this company."
	}
	if u, err := url.Parse("https://" + domain); err == nil {
		domain = u.Hostname()
	}
	return domain + " is a small business offering web services."
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
