package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"audit-gateway/audit"
	"audit-gateway/audit/application"
	"audit-gateway/audit/domain"
	"audit-gateway/audit/infra"
	"audit-gateway/config"
	"audit-gateway/logging"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatMarkdown = "markdown"
)

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <url>",
		Short: "Audit one URL and print the report",
		Example: `  audit-cli run https://example.com
  audit-cli run example.com -f yaml
  audit-cli run example.com --email owner@example.com --send`,
		Args: cobra.ExactArgs(1),
		RunE: runRunCmd,
	}

	cmd.Flags().StringP("format", "f", formatJSON, "Output format: json, yaml or markdown")
	cmd.Flags().StringP("email", "e", "", "Recipient of the e-mail report")
	cmd.Flags().Bool("send", false, "Send the e-mail report (requires --email and RESEND_API_KEY)")
	cmd.Flags().DurationP("timeout", "t", 0, "Per-probe timeout (default PROBE_TIMEOUT)")
	cmd.Flags().String("env-file", "", "Load variables from this file instead of .env")

	return cmd
}

type runOutput struct {
	URL      string        `json:"url" yaml:"url"`
	Report   domain.Report `json:"report" yaml:"report"`
	Level    domain.Level  `json:"level" yaml:"level"`
	Problems int           `json:"problems" yaml:"problems"`
	Loss     int           `json:"estimatedMonthlyLoss" yaml:"estimatedMonthlyLoss"`
	EmailID  string        `json:"emailId,omitempty" yaml:"emailId,omitempty"`
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	switch format {
	case formatJSON, formatYAML, formatMarkdown:
	default:
		return fmt.Errorf("unknown format %q (json, yaml, markdown)", format)
	}
	email, _ := cmd.Flags().GetString("email")
	send, _ := cmd.Flags().GetBool("send")
	if send && strings.TrimSpace(email) == "" {
		return fmt.Errorf("--send requires --email")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	envFile, _ := cmd.Flags().GetString("env-file")
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")

	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if timeout > 0 {
		cfg.Probe.Timeout = timeout
	}

	req := domain.Request{Email: email, URL: args[0]}
	target, err := domain.NewTarget(req.URL)
	if err != nil {
		return err
	}
	if send {
		if err := req.Validate(); err != nil {
			return err
		}
	}

	logger := logging.NewLogger(cmd.ErrOrStderr(), cfg.Log.Format, verbose || cfg.Log.Verbose)

	agg, err := application.NewAggregator(audit.NewProbes(cfg, nil),
		application.WithProbeTimeout(cfg.Probe.Timeout),
		application.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := agg.Audit(ctx, target)
	if err != nil {
		return err
	}
	summary := application.Summarize(report)

	out := runOutput{
		URL:      target.Input,
		Report:   report,
		Level:    summary.Level,
		Problems: summary.Problems,
		Loss:     summary.MonthlyLoss,
	}

	if send {
		mailer := audit.NewMailer(cfg, application.WithDispatchLogger(logger))
		res := <-mailer.Dispatch(ctx, domain.Delivery{
			To:        strings.TrimSpace(email),
			TargetURL: target.Input,
			Report:    report,
			Summary:   summary,
		})
		if res.Err != nil {
			return fmt.Errorf("send report: %w", res.Err)
		}
		out.EmailID = res.ID
	}

	return writeOutput(cmd.OutOrStdout(), format, out, summary)
}

func writeOutput(w io.Writer, format string, out runOutput, summary domain.Summary) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case formatMarkdown:
		return infra.WriteMarkdown(w, out.URL, out.Report, summary)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
}
