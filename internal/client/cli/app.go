package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/client/config"
	"github.com/dmitrijs2005/restorder/internal/client/imagestore"
	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/ordersync"
	"github.com/dmitrijs2005/restorder/internal/client/push"
	"github.com/dmitrijs2005/restorder/internal/client/services"
	"github.com/dmitrijs2005/restorder/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	api    client.Client
	db     *sql.DB
	cache  ordersync.Cache

	session   services.SessionStore
	cart      services.CartStore
	addresses services.AddressService
	menu      services.MenuService
	orders    services.OrderService
	checkout  services.CheckoutService
	images    services.ImageService

	notifier ordersync.Notifier
	widget   services.PaymentWidget
	dial     ordersync.Dialer

	reader *bufio.Reader
	out    *console

	mu          sync.Mutex
	mode        Mode
	feed        *ordersync.Feed
	menuItems   []models.MenuItem
	adminOrders []models.Order
}

// NewApp opens the local database, builds the REST client and wires every
// store and service the REPL needs.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	repos := client.NewRepositories(db)

	var session services.SessionStore
	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, client.TokenFunc(func() string {
		return session.Token()
	}))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	session = services.NewSessionStore(api, repos.Metadata, logger)

	uploader, err := newUploader(ctx, c, api)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return assemble(c, logger, api, repos, session, uploader, os.Stdin, os.Stdout), nil
}

func newUploader(ctx context.Context, c *config.Config, api client.ImageAPI) (services.Uploader, error) {
	switch strings.ToLower(c.ImageStore) {
	case "", config.ImageStoreAPI:
		return services.NewAPIUploader(api), nil
	case config.ImageStoreS3:
		u, err := imagestore.NewS3Uploader(ctx, imagestore.S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			PublicURL: c.S3PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 uploader: %w", err)
		}
		return u, nil
	default:
		return nil, fmt.Errorf("unknown image store %q", c.ImageStore)
	}
}

func assemble(
	c *config.Config,
	logger logging.Logger,
	api client.Client,
	repos *client.Repositories,
	session services.SessionStore,
	uploader services.Uploader,
	in io.Reader,
	out io.Writer,
) *App {
	cart := services.NewCartStore(repos.Metadata, logger)
	con := newConsole(out)
	reader := bufio.NewReader(in)

	return &App{
		config: c,
		logger: logger,
		api:    api,
		db:     repos.DB,
		cache:  ordersync.NewSQLiteCache(repos.DB),

		session:   session,
		cart:      cart,
		addresses: services.NewAddressService(api, session),
		menu:      services.NewMenuService(api, session),
		orders:    services.NewOrderService(api, session, cart, c.AdminPageSize),
		checkout:  services.NewCheckoutService(api, session, cart, c.Currency, logger),
		images:    services.NewImageService(uploader, session),

		notifier: &terminalNotifier{out: con},
		widget:   &terminalWidget{reader: reader, out: con},
		dial: func(ch push.Channel) ordersync.Subscription {
			return push.NewSubscriber(c.PushEndpoint(), session.Token(), ch, logger)
		},

		reader: reader,
		out:    con,
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.out.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run restores the session and cart, starts the connectivity watcher and
// blocks in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	a.cart.Load(ctx)
	if _, ok := a.session.Init(ctx).(models.SessionLoggedIn); !ok {
		a.out.Println("Not logged in. Type 'login', 'otp' or 'register'; 'menu' works for guests.")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.out.Println("Welcome to restorder (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	a.stopWatch()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "close database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.Current().(models.SessionLoggedIn)
	return ok
}

func (a *App) isAdmin() bool {
	_, err := a.session.RequireAdmin()
	return err == nil
}

func (a *App) getStatus() string {
	var parts []string
	if s, ok := a.session.Current().(models.SessionLoggedIn); ok {
		parts = append(parts, s.User.Name)
		if s.User.IsAdmin() {
			parts = append(parts, "admin")
		}
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				a.logger.Debug(ctx, "ping failed", "error", err)
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
