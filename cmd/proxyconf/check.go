package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"proxyconf/internal/logger"
	"proxyconf/internal/metrics"
	"proxyconf/internal/tester"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var checkReport bool

var checkCmd = &cobra.Command{
	Use:   "check [names...]",
	Short: "Check that profile servers accept TCP connections",
	Long: `Opens a TCP connection to host:port of every profile (or only the named ones)
and reports connect latency. No proxy handshake is attempted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		profiles, err := selectProfiles(cmd.Context(), st, args)
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			logger.Log.Warn("No profiles to check.")
			return nil
		}

		bar := progressbar.NewOptions(len(profiles),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("[cyan]Checking...[reset]"),
			progressbar.OptionSetWriter(os.Stderr),
		)

		mc := metrics.New()
		results := tester.New(cfg.Check).CheckAll(cmd.Context(), profiles, mc, func() { _ = bar.Add(1) })
		_ = bar.Finish()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\nNAME\tADDRESS\tRESULT")
		alive := 0
		for _, r := range results {
			status := fmt.Sprintf("✅ %v", r.Latency.Round(time.Millisecond))
			if !r.Alive() {
				status = "❌ " + metrics.Classify(r.Err)
			} else {
				alive++
			}
			fmt.Fprintf(w, "%s\t%s:%d\t%s\n", r.Profile.Name, r.Profile.Host, r.Profile.Port, status)
		}
		w.Flush()

		if checkReport {
			mc.PrintReport(os.Stdout, cfg.Check.Timeout, cfg.Check.Retries)
		}
		logger.Log.Infof("%d/%d profiles reachable.", alive, len(results))
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkReport, "report", false, "print latency and error statistics")
	rootCmd.AddCommand(checkCmd)
}
