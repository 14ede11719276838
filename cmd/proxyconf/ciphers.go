package main

import (
	"fmt"

	"proxyconf/internal/model"
	"proxyconf/internal/profile"

	"github.com/spf13/cobra"
)

var ciphersCmd = &cobra.Command{
	Use:   "ciphers",
	Short: "List supported proxy types and encryption methods",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Proxy types:")
		for _, t := range model.ProxyTypes {
			fmt.Printf("  %s\n", t)
		}
		fmt.Println("Encryption methods:")
		for _, c := range profile.Ciphers {
			if c == profile.DefaultCipher {
				fmt.Printf("  %s (default)\n", c)
				continue
			}
			fmt.Printf("  %s\n", c)
		}
	},
}

func init() {
	rootCmd.AddCommand(ciphersCmd)
}
