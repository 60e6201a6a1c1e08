package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/flashcards/internal/auth"
	"github.com/mrlokans/flashcards/internal/config"
	"github.com/mrlokans/flashcards/internal/database"
)

type UserCreateCommand struct {
	Username     string
	Password     string
	DatabasePath string
}

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users for local authentication",
	}

	create := &UserCreateCommand{}
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return create.Run(loadConfig(), cmd.OutOrStdout())
		},
	}
	createCmd.Flags().StringVarP(&create.Username, "username", "u", "", "Username (required)")
	createCmd.Flags().StringVarP(&create.Password, "password", "p", "", "Password, at least 8 characters (required)")
	createCmd.Flags().StringVar(&create.DatabasePath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	_ = createCmd.MarkFlagRequired("username")
	_ = createCmd.MarkFlagRequired("password")

	cmd.AddCommand(createCmd)
	return cmd
}

func (u *UserCreateCommand) Run(cfg *config.Config, out io.Writer) error {
	if u.DatabasePath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = u.DatabasePath
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	user, err := auth.NewService(db, cfg.Auth).Register(u.Username, u.Password)
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", u.Username, err)
	}

	fmt.Fprintf(out, "Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}
