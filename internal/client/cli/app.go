package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/calistrack/calistrack/internal/client/api"
	"github.com/calistrack/calistrack/internal/client/config"
	"github.com/calistrack/calistrack/internal/client/models"
	"github.com/calistrack/calistrack/internal/client/repositories/kvstore"
	"github.com/calistrack/calistrack/internal/client/services"
	"github.com/calistrack/calistrack/internal/client/session"
	"github.com/calistrack/calistrack/internal/client/store"
	"github.com/calistrack/calistrack/internal/logging"
)

var ErrNotLoggedIn = errors.New("not logged in")

type App struct {
	config           *config.Config
	log              logging.Logger
	db               *sql.DB
	session          *session.Coordinator
	authService      services.AuthService
	userService      services.UserService
	exerciseService  services.ExerciseService
	trainingService  services.TrainingService
	reader           *bufio.Reader
	out              io.Writer
	unsubscribeState func()
}

// NewApp opens the session cache (a SQLite file, or memory when
// cfg.Ephemeral is set) and wires the services around it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	var (
		cache kvstore.Repository
		db    *sql.DB
	)

	if c.Ephemeral {
		cache = kvstore.NewMemoryRepository()
	} else {
		var err error
		db, err = store.Open(ctx, c.CachePath)
		if err != nil {
			log.Error(ctx, "error initializing database", "path", c.CachePath, "error", err)
			return nil, err
		}
		cache = kvstore.NewSQLiteRepository(db)
	}

	a := newApp(c, cache, log, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, cache kvstore.Repository, log logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	client := api.New(c.APIBaseURL, api.CacheTokens{Cache: cache},
		api.WithTimeout(c.RequestTimeout),
		api.WithLogger(log),
	)

	as := services.NewAuthService(client)
	coord := session.New(cache, as,
		session.WithExpiryNotifier(client),
		session.WithLogger(log),
	)

	a := &App{
		config:          c,
		log:             log,
		session:         coord,
		authService:     as,
		userService:     services.NewUserService(client),
		exerciseService: services.NewExerciseService(client),
		trainingService: services.NewTrainingService(client),
		reader:          reader,
		out:             out,
	}
	a.unsubscribeState = coord.Subscribe(a.onSessionEvent)
	return a
}

// Run restores the cached session and serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.session.Start(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	a.println("Welcome to Calistrack (type 'help' for commands)")
	if u, ok := a.session.CurrentUser(); ok {
		a.notify(Notice{Kind: NoticeInfo, Title: "Welcome back", Message: u.Email})
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// Close releases the cache and detaches from the transport.
func (a *App) Close() {
	if a.unsubscribeState != nil {
		a.unsubscribeState()
		a.unsubscribeState = nil
	}
	a.session.Close()
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.Authenticated
}

func (a *App) getStatus() string {
	if u, ok := a.session.CurrentUser(); ok {
		return fmt.Sprintf("(%s) ", u.Email)
	}
	return ""
}

func (a *App) onSessionEvent(ev session.Event) {
	if ev.Reason == session.ReasonSessionExpired {
		a.notify(Notice{Kind: NoticeInfo, Title: "Session expired", Message: "please log in again"})
	}
}

func (a *App) currentUser() (models.CurrentUser, error) {
	u, ok := a.session.CurrentUser()
	if !ok {
		a.notify(Notice{Kind: NoticeError, Title: "Not logged in", Message: "please log in first"})
		return models.CurrentUser{}, ErrNotLoggedIn
	}
	return u, nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) notify(n Notice) {
	a.println(n.String())
}

// fail reports err and returns it. Auth failures that already ended the
// session were announced by onSessionEvent and are not repeated.
func (a *App) fail(title string, err error, m messages) error {
	if errors.Is(err, api.ErrUnauthorized) && m.Unauthorized == "" && !a.isLoggedIn() {
		return err
	}
	a.notify(errorNotice(title, err, m))
	a.log.Debug(context.Background(), "command failed", "title", title, "error", err)
	return err
}
