package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"audit-gateway/audit/application"
	"audit-gateway/audit/domain"
)

// Mensagens devolvidas ao cliente.
const (
	MsgMissingFields    = "Email and URL required"
	MsgInvalidEmail     = "Invalid email address"
	MsgInvalidURL       = "Invalid URL"
	MsgMethodNotAllowed = "Method not allowed"
	MsgNotFound         = "Not found"
)

const maxRequestBytes = 64 << 10

type Auditor interface {
	Audit(ctx context.Context, target domain.Target) (domain.Report, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, del domain.Delivery) <-chan application.DispatchResult
}

type Handler struct {
	auditor    Auditor
	dispatcher Dispatcher
	clientID   func(*http.Request) string
	logger     *slog.Logger
}

type HandlerOption func(*Handler)

// WithClientID define como identificar o cliente nos logs (normalmente a mesma
// chave do rate limit).
func WithClientID(fn func(*http.Request) string) HandlerOption {
	return func(h *Handler) { h.clientID = fn }
}

func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler aceita dispatcher nil (auditoria sem e-mail).
func NewHandler(auditor Auditor, dispatcher Dispatcher, opts ...HandlerOption) *Handler {
	h := &Handler{auditor: auditor, dispatcher: dispatcher}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.clientID == nil {
		h.clientID = func(r *http.Request) string { return r.RemoteAddr }
	}
	return h
}

type analyzeRequest struct {
	Email string `json:"email"`
	URL   string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("audit handler panicked", "panic", rec, "path", r.URL.Path)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fmt.Sprint(rec)})
		}
	}()

	req, err := decodeRequest(w, r)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
		return
	}
	req.ClientID = h.clientID(r)

	target, err := domain.NewTarget(req.URL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
		return
	}

	h.logger.Info("starting audit", "url", target.URL, "client", req.ClientID)

	report, err := h.auditor.Audit(r.Context(), target)
	if err != nil {
		h.logger.Error("audit failed", "url", target.URL, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	// o desfecho do envio só vai para o log; a resposta não espera
	if h.dispatcher != nil {
		h.dispatcher.Dispatch(r.Context(), domain.Delivery{
			To:        strings.TrimSpace(req.Email),
			TargetURL: target.Input,
			Report:    report,
			Summary:   application.Summarize(report),
		})
	}

	writeJSON(w, http.StatusOK, report)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (domain.Request, error) {
	var body analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&body); err != nil {
		return domain.Request{}, fmt.Errorf("%w: %v", domain.ErrMissingField, err)
	}
	return domain.Request{Email: body.Email, URL: body.URL}, nil
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return MsgInvalidEmail
	case errors.Is(err, domain.ErrInvalidURL):
		return MsgInvalidURL
	default:
		return MsgMissingFields
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
