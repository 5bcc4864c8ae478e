package infra

import (
	"io"
	"strconv"

	"audit-gateway/audit/domain"

	"github.com/nao1215/markdown"
)

// WriteMarkdown escreve o relatório de uma auditoria em Markdown (audit-cli).
func WriteMarkdown(w io.Writer, targetURL string, r domain.Report, s domain.Summary) error {
	md := markdown.NewMarkdown(w)

	md.H1("SEO/GEO Audit")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + targetURL + "`"},
			{"Score", strconv.Itoa(r.Score) + "%"},
			{"Visibility", s.Emoji + " " + s.Label},
			{"Problems", strconv.Itoa(s.Problems)},
			{"Estimated monthly loss", strconv.Itoa(s.MonthlyLoss) + " PLN"},
		},
	})
	md.PlainText("")

	md.H2("Checks")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Check", "Result"},
		Rows: [][]string{
			{"PageSpeed", passFail(r.PageSpeed >= 60) + " " + strconv.Itoa(r.PageSpeed) + "%"},
			{"Load time", passFail(r.LoadTime < 3) + " " + strconv.FormatFloat(r.LoadTime, 'f', -1, 64) + "s"},
			{"Mobile friendly", passFail(r.MobileFriendly)},
			{"HTTPS", passFail(r.HTTPS)},
			{"ChatGPT citation", passFail(r.ChatGPTCitation)},
			{"Gemini citation", passFail(r.GeminiCitation)},
			{"Schema markup", passFail(r.SchemaMarkup)},
		},
	})
	md.PlainText("")

	switch s.Level {
	case domain.LevelLow:
		md.Cautionf("Low visibility: %d problem(s) need fixing.", s.Problems)
	case domain.LevelMedium:
		md.Warningf("Medium visibility: %d problem(s) need fixing.", s.Problems)
	default:
		md.Tip("Good visibility.")
	}
	md.PlainText("")

	return md.Build()
}

func passFail(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
