package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/flashcards/internal/client"
	"github.com/mrlokans/flashcards/internal/config"
	"github.com/mrlokans/flashcards/internal/entities"
	"github.com/mrlokans/flashcards/internal/localstore"
	"github.com/mrlokans/flashcards/internal/quiz"
	"github.com/mrlokans/flashcards/internal/utils"
)

var errNoCards = errors.New("no flashcards matched the filters")

// StudyCommand runs a timed test session against a running server.
type StudyCommand struct {
	APIURL     string
	Category   string
	Difficulty string
	Length     int
	StorePath  string
	Username   string
	Password   string
	NoSync     bool
	Verbose    bool
}

func newStudyCommand() *cobra.Command {
	study := &StudyCommand{}

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Run a timed test session in the terminal",
		Long: `Fetch a set of cards from the server and quiz yourself one card at a
time. Press Enter to reveal the answer, then answer y if you knew it or n
to put it on the review list. Results are saved as progress.`,
		Example: `  flashcards study --category "Core Java" --length 5
  flashcards study --api http://localhost:8080 --difficulty hard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return study.Run(cmd.Context(), loadConfig(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&study.APIURL, "api", "", "Server URL (overrides API_URL)")
	cmd.Flags().StringVarP(&study.Category, "category", "c", "", "Only cards of this category")
	cmd.Flags().StringVarP(&study.Difficulty, "difficulty", "d", "", "Only cards of this difficulty (easy, medium, hard)")
	cmd.Flags().IntVarP(&study.Length, "length", "n", client.DefaultTestLength, "Number of cards")
	cmd.Flags().StringVar(&study.StorePath, "store", "", "SQLite file for offline state (overrides CLIENT_STORE_PATH)")
	cmd.Flags().StringVar(&study.Username, "username", "", "Log in before studying (server with local auth)")
	cmd.Flags().StringVar(&study.Password, "password", "", "Password for --username")
	cmd.Flags().BoolVar(&study.NoSync, "no-sync", false, "Keep progress local instead of saving it on the server")
	cmd.Flags().BoolVarP(&study.Verbose, "verbose", "v", false, "Log client activity")
	return cmd
}

func (s *StudyCommand) Run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := zap.NewNop()
	if s.Verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck
	}

	apiURL := cfg.Client.APIURL
	if s.APIURL != "" {
		apiURL = s.APIURL
	}
	opts := []client.HTTPOption{}
	if cfg.Client.Timeout > 0 {
		opts = append(opts, client.WithTimeout(cfg.Client.Timeout))
	}
	api := client.NewHTTPAPI(apiURL, opts...)

	userID := client.DemoUserID
	if s.Username != "" {
		user, err := api.Login(ctx, s.Username, s.Password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		userID = user.ID
	}

	store, closeStore, err := s.openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	printer := client.NotifierFunc(func(t client.Toast) {
		style := successStyle
		if t.Variant == client.VariantDestructive {
			style = errorStyle
		}
		fmt.Fprintln(out, style.Render(t.Title+": "+t.Description))
	})

	provider := client.New(api, localstore.New(store, logger),
		client.WithLogger(logger),
		client.WithNotifier(printer),
		client.WithUserID(userID),
		client.WithServerSync(cfg.Client.ServerSync && !s.NoSync),
	)

	provider.Init(ctx)

	cards := provider.FetchTestFlashcards(ctx, client.TestQuery{
		Category:   s.Category,
		Difficulty: s.Difficulty,
		Limit:      s.Length,
	})
	if len(cards) == 0 {
		return errNoCards
	}

	session := quiz.NewSession(quiz.WithLogger(logger))
	defer session.Close()
	if err := session.Start(cards); err != nil {
		return err
	}

	input := bufio.NewScanner(in)
	for {
		card, ok := session.Current()
		if !ok {
			break
		}
		status, ok := s.ask(input, out, session, card)
		if !ok {
			fmt.Fprintln(out, metaStyle.Render("\nSession abandoned"))
			break
		}
		if err := session.Mark(status); err != nil {
			return err
		}
		provider.RecordView(card)
		provider.RecordProgress(ctx, card.ID, status)
	}

	s.printSummary(ctx, out, session, provider)
	return nil
}

func (s *StudyCommand) openStore(cfg *config.Config) (localstore.Store, func(), error) {
	path := cfg.Client.StorePath
	if s.StorePath != "" {
		path = s.StorePath
	}
	if path == "" {
		return localstore.NewMemoryStore(), func() {}, nil
	}
	store, err := localstore.OpenDBStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}

// ask shows one card and reads the self-assessment. ok is false when input ends.
func (s *StudyCommand) ask(input *bufio.Scanner, out io.Writer, session *quiz.Session, card entities.Flashcard) (entities.ProgressStatus, bool) {
	index, total := session.Position()
	fmt.Fprintln(out)
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Card %d/%d", index+1, total))+" "+
		metaStyle.Render(fmt.Sprintf("%s · %s · %s", card.Category, card.Difficulty, quiz.FormatElapsed(session.Elapsed()))))
	fmt.Fprintln(out, questionStyle.Render(card.Question))
	fmt.Fprint(out, metaStyle.Render("Press Enter to reveal the answer"))
	if !input.Scan() {
		return "", false
	}

	_, _ = session.Flip()
	fmt.Fprintln(out)
	fmt.Fprintln(out, answerStyle.Render(utils.PlainText(card.Answer)))

	for {
		fmt.Fprint(out, "Did you know it? [y/n] ")
		if !input.Scan() {
			return "", false
		}
		switch strings.ToLower(strings.TrimSpace(input.Text())) {
		case "y", "yes":
			return entities.StatusMastered, true
		case "n", "no":
			return entities.StatusToReview, true
		}
	}
}

func (s *StudyCommand) printSummary(ctx context.Context, out io.Writer, session *quiz.Session, provider *client.Provider) {
	results := session.Results()
	fmt.Fprintln(out)
	title := "Session complete"
	if session.State() != quiz.Finished {
		title = "Session summary"
	}
	fmt.Fprintln(out, titleStyle.Render(title))
	fmt.Fprintf(out, "Mastered: %d\n", results.Mastered)
	fmt.Fprintf(out, "To review: %d\n", results.ToReview)
	fmt.Fprintf(out, "Time: %s\n", quiz.FormatElapsed(session.Elapsed()))

	stats := provider.RefreshStats(ctx)
	fmt.Fprintln(out, metaStyle.Render(fmt.Sprintf("Overall progress: %d%% mastered (%d of %d)", stats.Percentage, stats.Mastered, stats.Total)))
}
