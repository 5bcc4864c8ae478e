package infra

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"audit-gateway/audit/domain"
)

const DefaultPageSpeedURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// PageSpeedFallback é o valor neutro quando a API falha.
var PageSpeedFallback = domain.Performance{Score: 50, LoadTimeSeconds: 3.5, MobileFriendly: true}

// PageSpeedProbe mede performance e mobile numa única chamada (strategy=mobile).
type PageSpeedProbe struct {
	client  Doer
	baseURL string
	apiKey  string
}

func NewPageSpeedProbe(client Doer, baseURL, apiKey string) *PageSpeedProbe {
	if baseURL == "" {
		baseURL = DefaultPageSpeedURL
	}
	return &PageSpeedProbe{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (p *PageSpeedProbe) Name() string { return "pagespeed" }

func (p *PageSpeedProbe) Fallback() domain.Performance { return PageSpeedFallback }

type lighthouseAudit struct {
	Score        *float64 `json:"score"`
	NumericValue *float64 `json:"numericValue"`
}

type pageSpeedResponse struct {
	LighthouseResult *struct {
		Categories struct {
			Performance *struct {
				Score *float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]lighthouseAudit `json:"audits"`
	} `json:"lighthouseResult"`
}

func (p *PageSpeedProbe) Run(ctx context.Context, target domain.Target) (domain.Performance, error) {
	q := url.Values{}
	q.Set("url", target.URL)
	q.Set("strategy", "mobile")
	q.Add("category", "performance")
	q.Add("category", "seo")
	if p.apiKey != "" {
		q.Set("key", p.apiKey)
	}

	var resp pageSpeedResponse
	if err := doJSON(ctx, p.client, http.MethodGet, p.baseURL+"?"+q.Encode(), nil, nil, &resp); err != nil {
		return domain.Performance{}, err
	}
	return resp.performance()
}

func (r pageSpeedResponse) performance() (domain.Performance, error) {
	lr := r.LighthouseResult
	if lr == nil || lr.Categories.Performance == nil || lr.Categories.Performance.Score == nil {
		return domain.Performance{}, fmt.Errorf("%w: missing performance score", domain.ErrMalformedResponse)
	}
	speed, ok := lr.Audits["speed-index"]
	if !ok || speed.NumericValue == nil {
		return domain.Performance{}, fmt.Errorf("%w: missing speed-index", domain.ErrMalformedResponse)
	}

	score := int(math.Round(*lr.Categories.Performance.Score * 100))
	score = min(max(score, 0), 100)

	// speed-index vem em ms; uma casa decimal
	load := math.Round(*speed.NumericValue/100) / 10

	mobile := false
	if vp, ok := lr.Audits["viewport"]; ok && vp.Score != nil {
		mobile = *vp.Score == 1
	}

	return domain.Performance{Score: score, LoadTimeSeconds: load, MobileFriendly: mobile}, nil
}
