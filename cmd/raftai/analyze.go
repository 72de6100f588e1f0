package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raftai/engine/internal/domain"
)

func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <kyc|kyb|pitch|chat|financial> [file]",
		Short: "Run one analysis on a JSON submission and print the report",
		Long: `analyze reads one JSON submission from a file (or stdin when no file
is given), runs the matching evaluator, and prints the report envelope as
JSON on stdout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger := newLogger(v)

			service, err := buildService(config, logger, newMetrics())
			if err != nil {
				return err
			}

			payload, err := readSubmission(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var report domain.Report
			switch args[0] {
			case "kyc":
				var in domain.KYCInput
				if err := json.Unmarshal(payload, &in); err != nil {
					return fmt.Errorf("parsing kyc submission: %w", err)
				}
				report = service.EvaluateKYC(ctx, in)
			case "kyb":
				var in domain.KYBInput
				if err := json.Unmarshal(payload, &in); err != nil {
					return fmt.Errorf("parsing kyb submission: %w", err)
				}
				report = service.EvaluateKYB(ctx, in)
			case "pitch":
				var in domain.PitchInput
				if err := json.Unmarshal(payload, &in); err != nil {
					return fmt.Errorf("parsing pitch submission: %w", err)
				}
				report = service.EvaluatePitch(ctx, in)
			case "chat":
				var in domain.ChatInput
				if err := json.Unmarshal(payload, &in); err != nil {
					return fmt.Errorf("parsing chat submission: %w", err)
				}
				report = service.SummarizeChat(ctx, in)
			case "financial":
				var in domain.FinancialInput
				if err := json.Unmarshal(payload, &in); err != nil {
					return fmt.Errorf("parsing financial submission: %w", err)
				}
				report = service.EvaluateFinancial(ctx, in)
			default:
				return fmt.Errorf("unknown analysis domain %q", args[0])
			}

			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(report)
		},
	}
	return cmd
}

func readSubmission(args []string) ([]byte, error) {
	if len(args) == 2 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return nil, fmt.Errorf("reading submission: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}
