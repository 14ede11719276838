package main

import (
	"os"
	"strings"

	"proxyconf/internal/importers"
	httpsource "proxyconf/internal/importers/http"
	"proxyconf/internal/logger"
	"proxyconf/internal/sharelink"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var importFile string
var importURL string

var importCmd = &cobra.Command{
	Use:   "import [links...]",
	Short: "Import profiles from ss:// links",
	Long: `Import profiles from links given as arguments, read from a file (--file, "-" for
stdin) or downloaded from a subscription URL (--url). Each link is validated like a
hand-entered profile; links for servers that are already stored are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		links := sharelink.ExtractLinks(strings.Join(args, "\n"))

		if importFile != "" {
			src, err := importers.Get("file")
			if err != nil {
				return err
			}
			fromFile, err := src.Fetch(cmd.Context(), importFile)
			if err != nil {
				return err
			}
			links = append(links, fromFile...)
		}

		if importURL != "" {
			src, err := importers.Get("http")
			if err != nil {
				return err
			}
			if u, ok := src.(*httpsource.URLSource); ok {
				u.Timeout = cfg.Import.HTTPTimeout
			}
			fromURL, err := src.Fetch(cmd.Context(), importURL)
			if err != nil {
				return err
			}
			links = append(links, fromURL...)
		}

		if len(links) == 0 {
			logger.Log.Warn("No ss:// links found.")
			return nil
		}

		bar := progressbar.NewOptions(len(links),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("[cyan]Importing...[reset]"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)

		res, err := importers.Import(cmd.Context(), st, links, func() { _ = bar.Add(1) })
		_ = bar.Finish()
		if err != nil {
			return err
		}

		for _, f := range res.Failed {
			logger.Log.Warnf("Rejected %s: %v", truncate(f.Link, 40), f.Err)
		}
		logger.Log.Infof("✅ Imported %d, skipped %d, rejected %d.", len(res.Imported), res.Skipped, len(res.Failed))
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "read links from a file (\"-\" for stdin)")
	importCmd.Flags().StringVar(&importURL, "url", "", "download links from a subscription URL")
	rootCmd.AddCommand(importCmd)
}
