package main

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"audit-gateway/audit/domain"
	"audit-gateway/audit/infra"
)

func TestSandbox_ServesEveryProvider(t *testing.T) {
	srv := httptest.NewServer(newSandbox(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer srv.Close()

	target, err := domain.NewTarget(srv.URL + "/site/good")
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	ctx := context.Background()

	perf, err := infra.NewPageSpeedProbe(srv.Client(), srv.URL+"/pagespeed", "").Run(ctx, target)
	if err != nil || perf.Score != 95 || !perf.MobileFriendly {
		t.Fatalf("pagespeed: %+v %v", perf, err)
	}

	gpt, err := infra.NewChatGPTProbe(srv.Client(), srv.URL+"/v1", "sk-sandbox", "").Run(ctx, target)
	if err != nil || !gpt.Mentioned {
		t.Fatalf("chatgpt: %+v %v", gpt, err)
	}

	gem, err := infra.NewGeminiProbe(srv.Client(), srv.URL+"/gemini", "sandbox", "").Run(ctx, target)
	if err != nil || !gem.Mentioned {
		t.Fatalf("gemini: %+v %v", gem, err)
	}

	schema, err := infra.NewStructuredDataProbe(srv.Client()).Run(ctx, target)
	if err != nil || !schema.Present {
		t.Fatalf("schema: %+v %v", schema, err)
	}

	id, err := infra.NewResendSender(srv.Client(), srv.URL+"/resend", "re_sandbox").Send(ctx, domain.Message{To: "a@b.com"})
	if err != nil || id != "sandbox-1" {
		t.Fatalf("resend: %q %v", id, err)
	}
}

func TestAnswerFor(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{prompt: infra.BrandPrompt("acme.pl"), want: "acme.pl is a small business offering web services."},
		{prompt: infra.BrandPrompt("unknown.example"), want: "I could not find reliable information about this company."},
		{prompt: "hello", want: "I can't help with that."},
	}
	for _, tt := range tests {
		if got := answerFor(tt.prompt); got != tt.want {
			t.Errorf("answerFor(%q) = %q, want %q", tt.prompt, got, tt.want)
		}
	}
}
