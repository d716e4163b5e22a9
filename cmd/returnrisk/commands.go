package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"returnrisk/pkg/config"
	"returnrisk/pkg/data"
	"returnrisk/pkg/pipeline"
	"returnrisk/pkg/report"
	"returnrisk/pkg/server"
	"returnrisk/pkg/session"
)

func newRootCmd() *cobra.Command {
	var cfgPath string
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "returnrisk",
		Short:         "Predict which e-commerce orders will be returned",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(cfgPath); err != nil {
				return err
			}
			return cfg.SetupLogging()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the analyze/predict HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				log.Info().Str("version", Version).Msg("Starting returnrisk server")
				return server.New(cfg, session.NewStore()).ListenAndServe(ctx)
			},
		},
		newScoreCmd(func() *config.Config { return cfg }),
	)
	return root
}

func newScoreCmd(cfg func() *config.Config) *cobra.Command {
	var outPath, chartPath string
	cmd := &cobra.Command{
		Use:   "score <orders.csv|orders.xlsx>",
		Short: "Train on a dataset and report its return-risk tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, a, err := score(args[0], cfg())
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), a, res)

			if outPath != "" {
				if err := writeFile(outPath, func(w io.Writer) error {
					return report.WriteWorkbook(w, a.Resolved, res.Prediction, res.Summary)
				}); err != nil {
					return err
				}
				log.Info().Str("path", outPath).Msg("predictions saved")
			}
			if chartPath != "" {
				png, err := report.Histogram(res.Prediction.Probabilities)
				if err != nil {
					return err
				}
				if err := os.WriteFile(chartPath, png, 0o644); err != nil {
					return err
				}
				log.Info().Str("path", chartPath).Msg("histogram saved")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the scored orders to this .xlsx file")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write the probability histogram to this .png file")
	return cmd
}

func score(path string, cfg *config.Config) (*pipeline.Result, *pipeline.Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	raw, err := data.Load(path, f)
	if err != nil {
		return nil, nil, err
	}
	a, err := pipeline.Analyze(raw)
	if err != nil {
		return nil, nil, err
	}
	res, err := pipeline.Run(a, cfg.Model.Options())
	if err != nil {
		return nil, nil, err
	}
	return res, a, nil
}

func printReport(w io.Writer, a *pipeline.Analysis, res *pipeline.Result) {
	fmt.Fprintf(w, "Orders: %d  Missing values: %d  Return rate: %s\n\n",
		a.Stats.TotalOrders, a.Stats.MissingValues, a.Stats.ReturnRate)

	tiers := tablewriter.NewWriter(w)
	tiers.SetHeader([]string{"Tier", "Orders", "Percent"})
	s := res.Summary
	tiers.Append([]string{"High", fmt.Sprint(s.High.Count), s.High.PercentText()})
	tiers.Append([]string{"Medium", fmt.Sprint(s.Medium.Count), s.Medium.PercentText()})
	tiers.Append([]string{"Low", fmt.Sprint(s.Low.Count), s.Low.PercentText()})
	tiers.Render()
	fmt.Fprintln(w)

	preview := tablewriter.NewWriter(w)
	preview.SetHeader([]string{"Order", "Probability", "Prediction"})
	for _, row := range s.Preview {
		id := "-"
		if row.OrderID != nil {
			id = *row.OrderID
		}
		preview.Append([]string{id, fmt.Sprintf("%.3f", row.Probability), fmt.Sprint(row.Prediction)})
	}
	preview.Render()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
