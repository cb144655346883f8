package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"image-service/internal/logging"
	"image-service/internal/metrics"
)

// Default timeout for registry operations
const defaultTimeout = 5 * time.Second

// Asset is one ingested upload.
type Asset struct {
	ID            int64     `json:"-"`
	AssetID       string    `json:"assetId"` // stable stem: <token>_<unixts>
	OriginalName  string    `json:"originalName"`
	Kind          string    `json:"kind"` // raw|raster|preset
	StoredName    string    `json:"storedName"`
	ThumbnailName string    `json:"thumbnailName,omitempty"` // empty for presets
	OwnerID       string    `json:"ownerId,omitempty"`       // empty for images
	Signature     string    `json:"signature,omitempty"`     // empty for images
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Stats summarizes registry contents for the readiness and health
// endpoints.
type Stats struct {
	TotalAssets int64            `json:"totalAssets"`
	ByKind      map[string]int64 `json:"byKind"`
}

// Registry manages the asset database.
type Registry struct {
	db     *sql.DB
	dbPath string
}

// New opens (and if needed creates) the asset database at dbPath. The
// parent directory must already exist and be writable; LoadConfig
// validates that before this runs.
func New(ctx context.Context, dbPath string) (*Registry, error) {
	logging.Info("Registry database path: %s", dbPath)

	// WAL mode with a busy timeout prevents "database is locked" errors
	// when batch workers record results concurrently.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close registry after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to registry database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	r := &Registry{db: db, dbPath: dbPath}
	if err := r.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close registry after init failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize registry schema: %w", err)
	}

	logging.Info("Registry initialized successfully at %s", dbPath)
	return r, nil
}

func (r *Registry) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset_id TEXT NOT NULL UNIQUE,
		original_name TEXT NOT NULL,
		kind TEXT NOT NULL,
		stored_name TEXT NOT NULL,
		thumbnail_name TEXT NOT NULL DEFAULT '',
		owner_id TEXT NOT NULL DEFAULT '',
		signature TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_assets_stored_name ON assets(stored_name);
	CREATE INDEX IF NOT EXISTS idx_assets_kind ON assets(kind);
	CREATE INDEX IF NOT EXISTS idx_assets_owner ON assets(owner_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Record inserts one asset row. Re-uploading a preset with the same
// asset id updates the stored signature instead of duplicating the row.
func (r *Registry) Record(ctx context.Context, a *Asset) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("record", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
	INSERT INTO assets (asset_id, original_name, kind, stored_name, thumbnail_name, owner_id, signature, size)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(asset_id) DO UPDATE SET
		signature = excluded.signature,
		size = excluded.size
	`

	_, err = r.db.ExecContext(ctx, query,
		a.AssetID, a.OriginalName, a.Kind, a.StoredName,
		a.ThumbnailName, a.OwnerID, a.Signature, a.Size,
	)
	return err
}

// GetByStoredName retrieves the asset owning a stored artifact name.
// Thumbnails resolve to their parent asset. Returns nil when no row
// matches.
func (r *Registry) GetByStoredName(ctx context.Context, name string) (*Asset, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_by_stored_name", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
	SELECT id, asset_id, original_name, kind, stored_name, thumbnail_name, owner_id, signature, size, created_at
	FROM assets WHERE stored_name = ? OR thumbnail_name = ?
	`

	var a Asset
	var createdAt int64
	err = r.db.QueryRowContext(ctx, query, name, name).Scan(
		&a.ID, &a.AssetID, &a.OriginalName, &a.Kind, &a.StoredName,
		&a.ThumbnailName, &a.OwnerID, &a.Signature, &a.Size, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.CreatedAt = time.Unix(createdAt, 0)
	return &a, nil
}

// GetStats counts recorded assets per kind.
func (r *Registry) GetStats(ctx context.Context) (Stats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("stats", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := Stats{ByKind: make(map[string]int64)}

	rows, err := r.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM assets GROUP BY kind")
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int64
		if err = rows.Scan(&kind, &count); err != nil {
			return stats, err
		}
		stats.ByKind[kind] = count
		stats.TotalAssets += count
	}
	err = rows.Err()
	return stats, err
}

// Ping verifies the database is reachable, for the readiness probe.
func (r *Registry) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.db.PingContext(ctx)
}

// recordQuery records registry query metrics
func recordQuery(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RegistryQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.RegistryQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
