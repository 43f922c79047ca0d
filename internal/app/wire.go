package app

import (
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"locshare/internal/cache"
	"locshare/internal/domain"
	"locshare/internal/netmon"
	"locshare/internal/relay"
	directorysvc "locshare/internal/services/directory"
	identitysvc "locshare/internal/services/identity"
	locationsvc "locshare/internal/services/location"
	sharingsvc "locshare/internal/services/sharing"
	"locshare/internal/store"
)

// Wire bundles the stores, services, and clients for the CLI.
type Wire struct {
	Identity  domain.IdentityService
	Directory domain.DirectoryService
	Location  domain.LocationService
	Sharing   domain.SharingService
	Relay     domain.RelayClient
	Peers     *cache.PeerCache
	History   domain.HistoryStore
	Monitor   *netmon.Monitor
	Log       *zap.Logger

	db *store.DB
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	slots := store.NewSecretStore(cfg.Home)
	db, err := store.OpenDB(filepath.Join(cfg.Home, "locshare.db"))
	if err != nil {
		return nil, err
	}
	peerStore := store.NewPeerSQLStore(db)
	historyStore := store.NewHistorySQLStore(db)

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	rc := relay.New(cfg.RelayURL, httpClient)
	monitor := netmon.New(log, cfg.Notifier)
	peers := cache.New(peerStore, log)

	ids := identitysvc.New(store.NewIdentityFileStore(slots), log)
	dir := directorysvc.New(ids, rc, monitor, log)
	loc := locationsvc.New(ids, dir, rc, monitor, peers, historyStore, log)
	shr := sharingsvc.New(ids, rc, monitor, log)

	return &Wire{
		Identity:  ids,
		Directory: dir,
		Location:  loc,
		Sharing:   shr,
		Relay:     rc,
		Peers:     peers,
		History:   historyStore,
		Monitor:   monitor,
		Log:       log,
		db:        db,
	}, nil
}

// Close releases the durable-storage handle.
func (w *Wire) Close() error { return w.db.Close() }
