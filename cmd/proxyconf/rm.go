package main

import (
	"proxyconf/internal/logger"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Delete a stored proxy profile",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		p, err := loadByName(cmd.Context(), st, args[0])
		if err != nil {
			return err
		}
		if err := st.Delete(cmd.Context(), p.ID); err != nil {
			return err
		}
		logger.Log.Infof("🗑️  Deleted profile %q", p.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
