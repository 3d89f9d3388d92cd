package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tmakela/scubalog/internal/config"
	"github.com/tmakela/scubalog/internal/database"
	"github.com/tmakela/scubalog/internal/database/dives"
	"github.com/tmakela/scubalog/internal/database/settings"
	"github.com/tmakela/scubalog/internal/services"
	"github.com/tmakela/scubalog/internal/settingsstore"
	"github.com/tmakela/scubalog/internal/units"
)

// ExportCommand renders the dive log as a CSV or UDDF file.
type ExportCommand struct {
	Format       string
	Units        string
	OutputPath   string
	DatabasePath string
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

// ParseFlags parses command line flags
func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.Format, "format", "csv", "Export format: csv or uddf")
	fs.StringVar(&cmd.Units, "units", "", "Unit system for CSV: metric or imperial (default: stored preference)")
	fs.StringVar(&cmd.OutputPath, "o", "", "Output file path (default: generated name in current directory)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the dive log database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the whole dive log as CSV or UDDF.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -format uddf -o dives.uddf\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -units imperial\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the export command
func (cmd *ExportCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := services.NewInterchangeService(dives.NewRepository(db.DB))
	store := settingsstore.New(settings.NewRepository(db.DB))

	sys := store.GetUnitSystem()
	if cmd.Units != "" {
		sys = units.ParseSystem(cmd.Units)
	}

	file, err := service.Export(services.ParseFormat(cmd.Format), sys)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	outPath := cmd.OutputPath
	if outPath == "" {
		outPath = file.Filename
	}
	absPath, err := filepath.Abs(outPath)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	if err := os.WriteFile(absPath, file.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", absPath, err)
	}

	fmt.Printf("Exported to %s\n", absPath)
	return nil
}
