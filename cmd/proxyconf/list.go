package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"proxyconf/internal/geoip"
	"proxyconf/internal/model"

	"github.com/spf13/cobra"
)

var revealPassword bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored proxy profiles",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()
		defer initGeoIP(cfg)()

		profiles, err := st.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		header := "NAME\tTYPE\tHOST\tPORT\tCIPHER\tOTA"
		if geoip.Enabled() {
			header += "\tLOCATION"
		}
		fmt.Fprintln(w, header)
		for _, p := range profiles {
			line := fmt.Sprintf("%s\t%s\t%s\t%d\t%s\t%v", p.Name, p.Type, p.Host, p.Port, orDash(p.Authscheme), p.OTA)
			if geoip.Enabled() {
				line += "\t" + geoip.Describe(p.Host)
			}
			fmt.Fprintln(w, line)
		}
		return w.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one proxy profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()
		defer initGeoIP(cfg)()

		p, err := loadByName(cmd.Context(), st, args[0])
		if err != nil {
			return err
		}
		printProfile(p, revealPassword)
		return nil
	},
}

func printProfile(p model.Proxy, reveal bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", p.ID)
	fmt.Fprintf(w, "Name:\t%s\n", p.Name)
	fmt.Fprintf(w, "Type:\t%s\n", p.Type)
	fmt.Fprintf(w, "Host:\t%s\n", p.Host)
	if loc := geoip.Describe(p.Host); loc != "" {
		fmt.Fprintf(w, "Location:\t%s\n", loc)
	}
	fmt.Fprintf(w, "Port:\t%d\n", p.Port)
	fmt.Fprintf(w, "Encryption:\t%s\n", orDash(p.Authscheme))
	password := orDash(p.Password)
	if p.Password != nil && !reveal {
		password = "********"
	}
	fmt.Fprintf(w, "Password:\t%s\n", password)
	fmt.Fprintf(w, "One Time Auth:\t%v\n", p.OTA)
	fmt.Fprintf(w, "Updated:\t%s\n", p.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	w.Flush()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func init() {
	showCmd.Flags().BoolVar(&revealPassword, "reveal", false, "print the password instead of a mask")
	rootCmd.AddCommand(listCmd, showCmd)
}
