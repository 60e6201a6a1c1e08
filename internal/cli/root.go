package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/flashcards/internal/config"
)

// loadConfig reads .env and the environment.
func loadConfig() *config.Config {
	config.LoadDotEnv()
	return config.NewConfig()
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(version string) *cobra.Command {
	serve := newServeCommand(version)

	root := &cobra.Command{
		Use:   "flashcards",
		Short: "Java interview flashcards server and study tools",
		Long: `Flashcards serves a REST API for studying Java interview questions
and ships command line tools to seed decks, manage users and run timed
test sessions against a running server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(
		serve,
		newSeedCommand(),
		newUserCommand(),
		newStudyCommand(),
	)
	return root
}

func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
