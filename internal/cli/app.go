package cli

import (
	"path/filepath"

	"github.com/oracleapp/oracle/internal/catalog"
	"github.com/oracleapp/oracle/internal/config"
	"github.com/oracleapp/oracle/internal/details"
	"github.com/oracleapp/oracle/internal/dlc"
	"github.com/oracleapp/oracle/internal/download"
	"github.com/oracleapp/oracle/internal/fetch"
	"github.com/oracleapp/oracle/internal/library"
	"github.com/oracleapp/oracle/internal/place"
	"github.com/oracleapp/oracle/internal/platform"
	"github.com/oracleapp/oracle/internal/source"
)

// app bundles the wired engine components behind the commands.
type app struct {
	manager   *config.Manager
	settings  *config.Settings
	database  *catalog.Database
	details   *catalog.DetailsClient
	cache     *details.Cache
	placer    *place.Engine
	indexer   *library.Indexer
	syncer    *dlc.Engine
	downloads *download.Service
}

// newApp loads settings and wires every component. Components share
// one placement engine so the library view and the DLC rewriter see
// the same directories.
func newApp() (*app, error) {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return nil, err
	}
	settings, err := manager.Load()
	if err != nil {
		return nil, err
	}

	// The staging directory is the only directory the engine creates;
	// the Steam destination directories must already exist.
	if err := platform.CreateDirectoryIfNotExists(settings.DownloadDirectory); err != nil {
		return nil, err
	}

	placer := place.NewEngine(settings.LuaDir(), settings.ManifestDir(), settings.StatsDir())
	database := catalog.NewDatabase(filepath.Join(manager.Dir(), "cache"))
	indexer := library.NewIndexer(placer, database)
	syncer := dlc.NewEngine(placer)
	fetcher := fetch.NewFetcher(source.NewResolver(settings.CandidateSources()))
	downloads := download.NewService(fetcher, placer, indexer, syncer, library.NewLocks())

	return &app{
		manager:   manager,
		settings:  settings,
		database:  database,
		details:   catalog.NewDetailsClient(),
		cache:     details.New(),
		placer:    placer,
		indexer:   indexer,
		syncer:    syncer,
		downloads: downloads,
	}, nil
}
