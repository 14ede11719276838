package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database statistics",
	Long:  `Displays a dashboard of the current database state: file sizes, profile counts and cipher usage.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		profiles, err := st.List(cmd.Context())
		if err != nil {
			return err
		}

		dbSize := getFileSize(cfg.Database.Path)
		walSize := getFileSize(cfg.Database.Path + "-wal")

		typeCounts := make(map[string]int)
		cipherCounts := make(map[string]int)
		otaCount := 0
		for _, p := range profiles {
			typeCounts[p.Type.String()]++
			cipherCounts[orDash(p.Authscheme)]++
			if p.OTA {
				otaCount++
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		fmt.Println("\n📊 \033[1mPROXYCONF STATUS\033[0m")
		fmt.Println("────────────────────────────────────────")

		fmt.Fprintln(w, "\033[1;36m[ SYSTEM ]\033[0m\t")
		fmt.Fprintf(w, "  Database Path:\t%s\n", cfg.Database.Path)
		fmt.Fprintf(w, "  DB Size:\t%s\n", formatBytes(dbSize))
		if walSize > 0 {
			fmt.Fprintf(w, "  WAL Size:\t%s (pending checkpoint)\n", formatBytes(walSize))
		}
		fmt.Fprintf(w, "  Total Profiles:\t%d\n", len(profiles))
		fmt.Fprintf(w, "  One Time Auth:\t%d\n", otaCount)
		fmt.Fprintln(w, "\t")

		fmt.Fprintln(w, "\033[1;36m[ TYPES ]\033[0m\t")
		printCounts(w, typeCounts)
		fmt.Fprintln(w, "\t")

		fmt.Fprintln(w, "\033[1;36m[ CIPHERS ]\033[0m\t")
		printCounts(w, cipherCounts)

		w.Flush()
		fmt.Println("")
		return nil
	},
}

func printCounts(w *tabwriter.Writer, counts map[string]int) {
	if len(counts) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s:\t%d\n", k, counts[k])
	}
}

func getFileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}


func init() {
	rootCmd.AddCommand(statusCmd)
}
