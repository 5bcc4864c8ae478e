package infra

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"audit-gateway/audit/domain"
)

const (
	DefaultEmailFrom    = "Pomelo SEO/GEO <onboarding@resend.dev>"
	DefaultEmailContact = "pomelomarketingandsoft@gmail.com"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

// ReportRenderer monta o e-mail de marketing em polonês.
type ReportRenderer struct {
	from    string
	contact string
}

func NewReportRenderer(from, contact string) *ReportRenderer {
	if from == "" {
		from = DefaultEmailFrom
	}
	if contact == "" {
		contact = DefaultEmailContact
	}
	return &ReportRenderer{from: from, contact: contact}
}

type reportView struct {
	domain.Delivery
	LoadTime  string
	SpeedGood bool
	LoadGood  bool
	CTA       template.URL
}

func (r *ReportRenderer) Render(d domain.Delivery) (domain.Message, error) {
	view := reportView{
		Delivery:  d,
		LoadTime:  strconv.FormatFloat(d.Report.LoadTime, 'f', -1, 64),
		SpeedGood: d.Report.PageSpeed >= 60,
		LoadGood:  d.Report.LoadTime < 3,
		CTA:       template.URL(r.mailto(d.TargetURL)),
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return domain.Message{}, fmt.Errorf("execute template: %w", err)
	}

	return domain.Message{
		From:    r.from,
		To:      d.To,
		Subject: Subject(d.Report, d.Summary),
		HTML:    buf.String(),
	}, nil
}

func (r *ReportRenderer) mailto(target string) string {
	q := url.Values{}
	q.Set("subject", "Raport dla "+target)
	// mailto usa %20, não +
	return "mailto:" + r.contact + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

// Subject: "<emoji> Wynik: <score>% - <problems> problemów".
func Subject(r domain.Report, s domain.Summary) string {
	return fmt.Sprintf("%s Wynik: %d%% - %d problemów", s.Emoji, r.Score, s.Problems)
}
