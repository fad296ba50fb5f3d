// Package investors imports investor contact sheets into a demo-day event.
package investors

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/venturehq/demoday/internal/demoday/service"
	"github.com/venturehq/demoday/internal/demoday/storage/sqlite"
)

// Config holds investor importer configuration.
type Config struct {
	File    string
	EventID string
	DBPath  string `env:"DEMODAY_DB_PATH"`
	DryRun  bool
}

// ParseConfig parses environment and CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "demoday.db")
	}

	fs.StringVar(&cfg.File, "file", "", "CSV file with investor contacts")
	fs.StringVar(&cfg.EventID, "event", "", "target event ID")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "demo-day database path (default: DEMODAY_DB_PATH or data/demoday.db)")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "parse and validate the file without writing")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.File) == "" {
		return Config{}, errors.New("file is required")
	}
	if !cfg.DryRun && strings.TrimSpace(cfg.EventID) == "" {
		return Config{}, errors.New("event is required")
	}
	return cfg, nil
}

// Run executes the importer using the provided Config.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	f, err := os.Open(cfg.File)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	records, err := ParseRecords(f)
	if err != nil {
		return err
	}
	if cfg.DryRun {
		_, err = fmt.Fprintf(out, "parsed %d record(s)\n", len(records))
		return err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	svc := service.New(service.Deps{Tx: store, Stores: store.Stores()})
	report, err := svc.ImportInvestors(ctx, service.ImportInvestorsInput{
		EventID: cfg.EventID,
		Records: records,
	})
	if err != nil {
		return err
	}
	svc.Drain()

	for _, row := range report.Rows {
		if row.Status == service.ImportRowError {
			fmt.Fprintf(out, "error %s: %s\n", row.Email, row.Message)
		}
	}
	_, err = fmt.Fprintf(out,
		"imported %d record(s): %d users created, %d users updated, %d teams created, %d memberships, %d leads, %d errors\n",
		report.Summary.Total, report.Summary.CreatedUsers, report.Summary.UpdatedUsers,
		report.Summary.CreatedTeams, report.Summary.UpdatedMemberships,
		report.Summary.PromotedToLead, report.Summary.Errors)
	return err
}

// columnAliases maps accepted header spellings to canonical column names.
var columnAliases = map[string]string{
	"email":           "email",
	"e-mail":          "email",
	"name":            "name",
	"full name":       "name",
	"organization":    "organization",
	"org":             "organization",
	"fund":            "fund",
	"company":         "organization",
	"role":            "role",
	"title":           "role",
	"lead":            "lead",
	"is_fund":         "is_fund",
	"investment_type": "investment_type",
	"focus":           "focus",
	"check_range":     "check_range",
	"check range":     "check_range",
	"linkedin":        "linkedin",
	"twitter":         "twitter",
	"telegram":        "telegram",
	"tags":            "tags",
}

// ParseRecords reads a CSV contact sheet into import records. The first
// row must be a header; unknown columns are ignored.
func ParseRecords(r io.Reader) ([]service.InvestorRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[int]string, len(header))
	for i, name := range header {
		if canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			columns[i] = canonical
		}
	}
	if !hasColumn(columns, "email") {
		return nil, errors.New("missing email column")
	}

	var records []service.InvestorRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		var record service.InvestorRecord
		for i, value := range row {
			value = strings.TrimSpace(value)
			switch columns[i] {
			case "email":
				record.Email = value
			case "name":
				record.Name = value
			case "organization":
				record.Organization = value
			case "role":
				record.RoleText = value
			case "lead":
				if value != "" {
					lead, err := strconv.ParseBool(value)
					if err != nil {
						return nil, fmt.Errorf("line %d: invalid lead flag %q", line, value)
					}
					record.Lead = &lead
				}
			case "fund", "is_fund":
				if value != "" {
					fund, err := strconv.ParseBool(value)
					if err != nil {
						return nil, fmt.Errorf("line %d: invalid fund flag %q", line, value)
					}
					record.Fund = fund
				}
			case "investment_type":
				record.InvestmentType = value
			case "focus":
				record.Focus = value
			case "check_range":
				record.CheckRange = value
			case "linkedin":
				record.LinkedIn = value
			case "twitter":
				record.Twitter = value
			case "telegram":
				record.Telegram = value
			case "tags":
				record.Tags = value
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func hasColumn(columns map[int]string, name string) bool {
	for _, canonical := range columns {
		if canonical == name {
			return true
		}
	}
	return false
}
