package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/objstore"
	"github.com/abhisek/sfassess/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the assessment report",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save-findings")

		d, err := openDeps(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		if err := d.current(ctx); err != nil {
			return err
		}
		a, _ := d.manager.Current()
		if save {
			if a, err = d.manager.GenerateFindings(ctx); err != nil {
				return err
			}
		} else {
			a = report.Generate(a)
		}

		switch format {
		case "text":
			d.metrics.Exports.WithLabelValues("text").Inc()
			return report.WriteText(os.Stdout, a)
		case "json":
			d.metrics.Exports.WithLabelValues("json").Inc()
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Summary    report.Summary         `json:"summary"`
				Unknowns   []report.QuestionRef   `json:"unknowns"`
				Assessment *assessment.Assessment `json:"assessment"`
			}{report.Summarize(a), report.Unknowns(a), a})
		default:
			return fmt.Errorf("unknown format %q (want text or json)", format)
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the assessment to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		upload, _ := cmd.Flags().GetBool("upload")

		d, err := openDeps(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		if err := d.current(ctx); err != nil {
			return err
		}
		a, _ := d.manager.Current()

		var buf bytes.Buffer
		if err := report.WriteXLSX(&buf, a); err != nil {
			d.log.Error("export failed", zap.Error(err))
			return err
		}
		d.metrics.Exports.WithLabelValues("xlsx").Inc()

		name := report.FileName(a, time.Now())
		if out == "" {
			out = d.cfg.Export.Dir
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
		path := filepath.Join(out, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		fmt.Println("Wrote", path)

		if !upload {
			return nil
		}
		u, err := objstore.New(d.cfg.Storage, d.log)
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		url, err := u.Upload(ctx, name, bytes.NewReader(buf.Bytes()), int64(buf.Len()), report.ContentType)
		if err != nil {
			return err
		}
		fmt.Println("Uploaded", url)
		return nil
	},
}

func init() {
	reportCmd.Flags().String("format", "text", "Output format: text or json")
	reportCmd.Flags().Bool("save-findings", false, "Store the generated recommendations and critical points with the assessment")

	exportCmd.Flags().String("out", "", "Output directory (default: export.dir from config)")
	exportCmd.Flags().Bool("upload", false, "Also upload the workbook to the configured object storage")
}
