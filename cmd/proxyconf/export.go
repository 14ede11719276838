package main

import (
	"fmt"
	"strings"

	"proxyconf/internal/exporters"

	"github.com/spf13/cobra"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [names...]",
	Short: "Export profiles as share links or client config",
	Long: fmt.Sprintf(`Export all profiles, or only the named ones, to stdout.
Formats: %s. The default comes from export.format in config.yaml.`, strings.Join(exporters.Names(), ", ")),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		format := exportFormat
		if format == "" {
			format = cfg.Export.Format
		}
		exp, err := exporters.Get(format)
		if err != nil {
			return err
		}

		profiles, err := selectProfiles(cmd.Context(), st, args)
		if err != nil {
			return err
		}

		payload, err := exp.Export(profiles)
		if err != nil {
			return err
		}
		fmt.Println(payload)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "output format")
	rootCmd.AddCommand(exportCmd)
}
