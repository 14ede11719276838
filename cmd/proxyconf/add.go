package main

import (
	"context"
	"fmt"

	"proxyconf/internal/logger"
	"proxyconf/internal/model"
	"proxyconf/internal/profile"

	"github.com/spf13/cobra"
)

var addForm formFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a proxy profile",
	Long: `Create a new proxy profile from the given fields. Unset fields start from the
form defaults (type shadowsocks, the first cipher). Names must be unique.`,
	Example: `  proxyconf add --name Home --host 1.2.3.4 --port 8388 --encryption aes-256-cfb --password secret --ota
  proxyconf add --link 'ss://YWVzLTI1Ni1jZmI6c2VjcmV0@1.2.3.4:8388#Home'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entered, err := addForm.fields(cmd)
		if err != nil {
			return err
		}

		_, st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		session := profile.NewAddSession(st)
		p, err := session.Submit(cmd.Context(), profile.Merge(newFormDefaults(), entered))
		if err != nil {
			return err
		}
		logger.Log.Infof("✅ Added profile %q (%s)", p.Name, p.ID)
		return nil
	},
}

var editForm formFlags

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a stored proxy profile",
	Long: `Edit the named profile. Only the fields given as flags change; the rest keep
their stored values. The stored profile is replaced in a single transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entered, err := editForm.fields(cmd)
		if err != nil {
			return err
		}

		_, st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		stored, err := loadByName(cmd.Context(), st, args[0])
		if err != nil {
			return err
		}

		session := profile.NewEditSession(st, stored)
		p, err := session.Submit(cmd.Context(), profile.Merge(profile.FieldsOf(stored), entered))
		if err != nil {
			return err
		}
		logger.Log.Infof("✅ Updated profile %q", p.Name)
		return nil
	},
}

type profileLoader interface {
	GetByName(ctx context.Context, name string) (model.Proxy, error)
	List(ctx context.Context) ([]model.Proxy, error)
}

func loadByName(ctx context.Context, st profileLoader, name string) (model.Proxy, error) {
	p, err := st.GetByName(ctx, name)
	if err != nil {
		return p, fmt.Errorf("profile %q: %w", name, err)
	}
	return p, nil
}

// selectProfiles returns the named profiles, or all of them when names is empty.
func selectProfiles(ctx context.Context, st profileLoader, names []string) ([]model.Proxy, error) {
	if len(names) == 0 {
		return st.List(ctx)
	}
	profiles := make([]model.Proxy, 0, len(names))
	for _, name := range names {
		p, err := loadByName(ctx, st, name)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func init() {
	addForm.register(addCmd.Flags())
	editForm.register(editCmd.Flags())
	rootCmd.AddCommand(addCmd, editCmd)
}
