package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iota-uz/org-portal/modules/ingest/domain/feed"
	"github.com/iota-uz/org-portal/modules/ingest/infrastructure/tabular"
	ingestservices "github.com/iota-uz/org-portal/modules/ingest/services"
)

type ingestOptions struct {
	Files  []string
	Type   string
	Mode   string
	Sheet  string
	DryRun bool
}

func newIngestCmd() *cobra.Command {
	var opts ingestOptions

	cmd := &cobra.Command{
		Use:   "ingest --file <path> --type <organization|services|dependencies>",
		Short: "Apply spreadsheet feeds directly against the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(opts.Files) == 0 {
				return errors.New("--file is required")
			}
			feedType, err := feed.ParseType(opts.Type)
			if err != nil {
				return fmt.Errorf("--type: %w", err)
			}
			mode, err := feed.ParseMode(opts.Mode)
			if err != nil {
				return fmt.Errorf("--mode: %w", err)
			}

			tables := make([]*feed.Table, 0, len(opts.Files))
			for _, path := range opts.Files {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				table, err := tabular.Parse(f, path, opts.Sheet)
				f.Close()
				if err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
				tables = append(tables, table)
			}

			ctx, app, pool, err := openApp()
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := app.Migrations().Apply(ctx); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			ingest := app.Service(ingestservices.IngestService{}).(*ingestservices.IngestService)
			report, err := ingest.Ingest(ctx, ingestservices.Request{
				Type:   feedType,
				Mode:   mode,
				Tables: tables,
				DryRun: opts.DryRun,
			})
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Files, "file", nil, "feed file (.xlsx or .csv); repeatable, later files run in append mode")
	cmd.Flags().StringVar(&opts.Type, "type", "", "feed type: organization, services or dependencies")
	cmd.Flags().StringVar(&opts.Mode, "mode", "replace", "ingest mode: replace or append")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "workbook sheet name (default: first sheet)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "parse and validate, then roll back")
	return cmd
}
