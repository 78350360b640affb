package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/checklist"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/snapshot"
	"github.com/rpggio/packlist/internal/domain/template"
	"github.com/rpggio/packlist/internal/i18n"
	"github.com/rpggio/packlist/internal/mcp"
	"github.com/rpggio/packlist/internal/render"
	"github.com/rpggio/packlist/internal/sqlite"
	"github.com/rpggio/packlist/internal/transport"
)

// Options tune the wiring of an App.
type Options struct {
	// DSN defaults to a shared in-memory database named after the test.
	DSN        string
	QuotaBytes int64
	SaveDelay  time.Duration
	Locale     string
}

// App is the fully wired application backed by SQLite.
type App struct {
	DB          *sqlite.DB
	KV          *sqlite.KVStore
	Catalog     *i18n.Catalog
	Activity    *activity.Service
	CustomItems *customitem.Service
	Templates   *template.Service
	Checklist   *checklist.Coordinator
	Renderer    *render.Headless
	Handler     *mcp.Handler
}

// NewApp wires an App and restores any persisted state, as the server does
// at startup.
func NewApp(t *testing.T, opts Options) *App {
	t.Helper()
	ctx := context.Background()

	dsn := opts.DSN
	if dsn == "" {
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	}
	if opts.QuotaBytes == 0 {
		opts.QuotaBytes = sqlite.DefaultQuotaBytes
	}
	if opts.SaveDelay == 0 {
		opts.SaveDelay = 20 * time.Millisecond
	}

	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	app := &App{
		DB:       db,
		KV:       sqlite.NewKVStore(db, opts.QuotaBytes),
		Catalog:  i18n.MustLoadEmbedded(),
		Renderer: render.NewHeadless(0),
	}

	activityRepo := sqlite.NewActivityRepository(db)
	app.Activity = activity.NewService(activityRepo, nil)

	app.CustomItems = customitem.NewService(sqlite.NewCustomItemRepository(app.KV, activityRepo, nil), activityRepo, nil)
	require.NoError(t, app.CustomItems.Reload(ctx))

	app.Checklist = checklist.NewCoordinator(checklist.Deps{
		Lookup:      app.Catalog,
		CustomItems: app.CustomItems,
		Store:       snapshot.NewStore(app.KV, activityRepo, nil),
		Renderer:    app.Renderer,
		Activities:  activityRepo,
		Locale:      opts.Locale,
		SaveDelay:   opts.SaveDelay,
	})
	app.CustomItems.OnChange(app.Checklist.HandleCustomItemsChanged)

	app.Templates = template.NewService(sqlite.NewTemplateRepository(app.KV, activityRepo, nil), app.Checklist, app.CustomItems, activityRepo, nil)
	require.NoError(t, app.Templates.Reload(ctx))

	_, err = app.Checklist.Restore(ctx)
	require.NoError(t, err)

	app.Handler = mcp.NewHandler(mcp.Services{
		Checklist:   app.Checklist,
		CustomItems: app.CustomItems,
		Templates:   app.Templates,
		Activity:    app.Activity,
		Catalog:     app.Catalog,
	}, nil)

	t.Cleanup(func() {
		_ = app.Checklist.Close(context.Background())
		_ = db.Close()
	})
	return app
}

// TestServer serves an App over HTTP.
type TestServer struct {
	*App
	Server *httptest.Server
}

// New starts an HTTP server for a new App.
func New(t *testing.T, opts Options) *TestServer {
	t.Helper()
	app := NewApp(t, opts)
	server := httptest.NewServer(transport.NewServer(app.Handler, nil))
	t.Cleanup(server.Close)
	return &TestServer{App: app, Server: server}
}
