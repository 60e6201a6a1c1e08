package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrlokans/flashcards/internal/config"
	"github.com/mrlokans/flashcards/internal/database"
	"github.com/mrlokans/flashcards/internal/importers"
)

// SeedCommand imports a deck file, or the built-in deck into an empty database.
type SeedCommand struct {
	File         string
	DatabasePath string
	DryRun       bool
	Verbose      bool
}

func newSeedCommand() *cobra.Command {
	seed := &SeedCommand{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import flashcards from a deck file",
		Long: `Import flashcards from a JSON, YAML, CSV or XLSX deck.

Tabular decks need a header row with question, answer, category and
difficulty columns. Without --file the built-in Java interview deck is
loaded, but only into a database that has no preloaded cards yet.`,
		Example: `  flashcards seed --file deck.yaml
  flashcards seed --file deck.xlsx --dry-run --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed.Run(loadConfig(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&seed.File, "file", "f", "", "Deck file (.json, .yaml, .yml, .csv, .xlsx)")
	cmd.Flags().StringVar(&seed.DatabasePath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	cmd.Flags().BoolVar(&seed.DryRun, "dry-run", false, "Validate the deck without importing")
	cmd.Flags().BoolVarP(&seed.Verbose, "verbose", "v", false, "List skipped rows")
	return cmd
}

func (s *SeedCommand) Run(cfg *config.Config, out io.Writer) error {
	if s.DryRun {
		return s.dryRun(out)
	}

	if s.DatabasePath != "" {
		abs, err := filepath.Abs(s.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for database: %w", err)
		}
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = abs
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if s.File == "" {
		cards, err := importers.DefaultDeck()
		if err != nil {
			return err
		}
		seeded, err := db.SeedFlashcards(cards)
		if err != nil {
			return err
		}
		if seeded == 0 {
			fmt.Fprintln(out, "Database already has preloaded flashcards, nothing to do")
			return nil
		}
		fmt.Fprintf(out, "Seeded %d flashcards from the built-in deck\n", seeded)
		return nil
	}

	result, err := importers.NewPipeline(db).ImportFile(s.File)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported: %d\n", result.Imported)
	fmt.Fprintf(out, "Skipped: %d\n", result.Skipped)
	s.printProblems(out, result.Errors)
	return nil
}

func (s *SeedCommand) dryRun(out io.Writer) error {
	if s.File == "" {
		return fmt.Errorf("--dry-run needs --file")
	}
	cards, problems, err := importers.LoadFile(s.File)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Valid: %d\n", len(cards))
	fmt.Fprintf(out, "Skipped: %d\n", len(problems))
	s.printProblems(out, problems)
	fmt.Fprintln(out, "Dry run complete. Use without --dry-run to import.")
	return nil
}

func (s *SeedCommand) printProblems(out io.Writer, problems []string) {
	if !s.Verbose {
		return
	}
	for _, p := range problems {
		fmt.Fprintf(out, "  [SKIPPED] %s\n", p)
	}
}
