package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/export"
	"github.com/sells-group/prospector/internal/model"
)

var (
	exportFormat string
	exportOut    string
	exportFile   string
)

var exportCmd = &cobra.Command{
	Use:   "export [company name ...]",
	Short: "Resolve companies and export the merged records",
	Long:  "Resolves each company through the full provider fan-out and writes the merged records to csv, xlsx, notion, or salesforce.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export"); err != nil {
			return err
		}

		ctx := cmd.Context()

		names := args
		if exportFile != "" {
			fromFile, err := readNamesFile(exportFile)
			if err != nil {
				return err
			}
			names = append(names, fromFile...)
		}
		if len(names) == 0 {
			return eris.New("no company names given; pass them as arguments or via --file")
		}

		env, err := initApp(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		records := env.Orchestrator.Resolve(ctx, names)

		switch exportFormat {
		case "csv":
			return exportCSV(records)
		case "xlsx":
			if exportOut == "" {
				return eris.New("--out is required for xlsx export")
			}
			return export.WriteXLSX(exportOut, records)
		case "notion":
			if env.Notion == nil {
				return eris.New("notion token is not configured (PROSPECTOR_NOTION_TOKEN)")
			}
			if cfg.Notion.LeadDB == "" {
				return eris.New("notion lead database is not configured (PROSPECTOR_NOTION_LEAD_DB)")
			}
			exporter := export.NewNotionExporter(env.Notion, cfg.Notion.LeadDB)
			created, err := exporter.Export(ctx, records)
			zap.L().Info("export: notion pages created", zap.Int("created", created))
			return err
		case "salesforce":
			sfClient, err := initSalesforce()
			if err != nil {
				return err
			}
			exporter := export.NewSalesforceExporter(sfClient)
			inserted, err := exporter.Export(ctx, records)
			zap.L().Info("export: salesforce accounts inserted", zap.Int("inserted", inserted))
			return err
		default:
			return eris.Errorf("unknown export format %q", exportFormat)
		}
	},
}

func exportCSV(records []model.CompanyRecord) error {
	w := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return eris.Wrap(err, "create csv file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	}
	return export.WriteCSV(w, records)
}

// readNamesFile reads one company name per line, skipping blanks.
func readNamesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open names file %s", path)
	}
	defer f.Close() //nolint:errcheck

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "read names file")
	}
	return names, nil
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "export format: csv, xlsx, notion, salesforce")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (stdout for csv when omitted)")
	exportCmd.Flags().StringVar(&exportFile, "file", "", "file with one company name per line")
	rootCmd.AddCommand(exportCmd)
}
