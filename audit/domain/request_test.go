package domain

import (
	"errors"
	"testing"
)

func TestNewTarget(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantURL string
		host    string
		wantErr error
	}{
		{name: "defaults scheme", raw: "example.com", wantURL: "https://example.com", host: "example.com"},
		{name: "keeps http", raw: "http://example.com/a", wantURL: "http://example.com/a", host: "example.com"},
		{name: "lowercases host", raw: " https://WWW.Example.COM ", wantURL: "https://WWW.Example.COM", host: "www.example.com"},
		{name: "empty", raw: "  ", wantErr: ErrMissingField},
		{name: "ftp scheme", raw: "ftp://example.com", wantErr: ErrInvalidURL},
		{name: "no host", raw: "https://", wantErr: ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTarget(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.URL != tt.wantURL || got.Host != tt.host {
				t.Fatalf("expected %s (%s), got %+v", tt.wantURL, tt.host, got)
			}
		})
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "valid", req: Request{Email: "a@b.com", URL: "https://good-site.example"}},
		{name: "missing email", req: Request{URL: "https://x.example"}, wantErr: ErrMissingField},
		{name: "missing url", req: Request{Email: "a@b.com"}, wantErr: ErrMissingField},
		{name: "bad email", req: Request{Email: "not-an-email", URL: "x.example"}, wantErr: ErrInvalidEmail},
		{name: "bad url", req: Request{Email: "a@b.com", URL: "mailto:x"}, wantErr: ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
