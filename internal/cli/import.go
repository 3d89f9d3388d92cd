package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tmakela/scubalog/internal/config"
	"github.com/tmakela/scubalog/internal/database"
	"github.com/tmakela/scubalog/internal/database/dives"
	"github.com/tmakela/scubalog/internal/services"
)

// ImportCommand imports a CSV or UDDF file into the dive log.
type ImportCommand struct {
	FilePath     string
	DatabasePath string
	Confirm      bool
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

// ParseFlags parses command line flags
func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the CSV or UDDF file to import")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the dive log database")
	fs.BoolVar(&cmd.Confirm, "confirm", false, "Commit the import (default is a dry-run preview)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import dives from a CSV or UDDF file.\n\n")
		fmt.Fprintf(os.Stderr, "Without -confirm the command only previews: it reports the parsed\n")
		fmt.Fprintf(os.Stderr, "dives, title conflicts, and pressure warnings without writing anything.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file dives.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -file backup.uddf -confirm\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}

	return nil
}

// Run executes the import command
func (cmd *ImportCommand) Run() error {
	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.FilePath, err)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := services.NewInterchangeService(dives.NewRepository(db.DB))

	filename := filepath.Base(cmd.FilePath)
	preview, err := service.Preview(filename, data)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Parsed %d dives from %s (%s)\n", len(preview.Candidates), filename, services.DetectFormat(filename))
	for _, title := range preview.Conflicts {
		fmt.Printf("  conflict: %q already exists and will be renamed\n", title)
	}
	for _, title := range preview.PressureWarnings {
		fmt.Printf("  warning: %q has end pressure above start pressure\n", title)
	}

	if !cmd.Confirm {
		fmt.Println("Dry run only. Re-run with -confirm to commit.")
		return nil
	}

	result, err := service.Commit(preview)
	if err != nil {
		return fmt.Errorf("commit failed after %d inserts: %w", result.Imported, err)
	}

	fmt.Printf("Imported %d dives (%d renamed)\n", result.Imported, result.Renamed)
	return nil
}
