package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and the Airtable schema, then count records per table",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("offline", false, "only validate config and schema")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var missing []string
	for key, value := range map[string]string{
		"AIRTABLE_BASE_ID": cfg.Airtable.BaseID,
		"AIRTABLE_TOKEN":   cfg.Airtable.Token,
		"SECRET_KEY":       cfg.SecretKey,
		"POSTGRES_URI":     cfg.PostgresURI,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required settings: %v", missing)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "config and schema OK")
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		return nil
	}

	for _, table := range []string{airtable.TablePosts, airtable.TableGuidelines, airtable.TablePrompts, airtable.TableFolders} {
		records, err := store.List(ctx, table)
		if err != nil {
			return fmt.Errorf("list %s: %w", table, err)
		}
		fmt.Fprintf(out, "%-12s %d records\n", table, len(records))
	}
	return nil
}
