package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/linedb/linedb/internal/blob"
	"github.com/linedb/linedb/internal/store"
	"github.com/linedb/linedb/pkg"
)

type Settings struct {
	// WriteThreshold triggers a snapshot once this many writes have
	// landed since the last one.
	WriteThreshold int64
	// SaveInterval triggers a snapshot once this much time has
	// passed since the last one with writes pending.
	SaveInterval time.Duration
	// Compression selects the payload codec.
	Compression CompressionType
	// InMem disables persistence entirely.
	InMem bool
}

func DefaultSettings() Settings {
	return Settings{
		WriteThreshold: 100,
		SaveInterval:   5 * time.Second,
		Compression:    CompressionNone,
	}
}

// Manager owns the snapshot lifecycle: restore at startup, trigger
// checks after writes, a background interval sweep, and the final
// save on shutdown. Saves clone the database under the read lock,
// then serialize and upload with no lock held, so slow storage never
// blocks queries.
type Manager struct {
	db       *store.Database
	blobs    blob.Store
	settings Settings

	// serializes concurrent saves; the limiter keeps write bursts
	// from stacking snapshot goroutines behind it
	saveMu  sync.Mutex
	limiter *rate.Limiter

	lastMu   sync.Mutex
	lastSave time.Time
}

func NewManager(db *store.Database, blobs blob.Store, settings Settings) *Manager {
	if settings.WriteThreshold <= 0 {
		settings.WriteThreshold = DefaultSettings().WriteThreshold
	}
	if settings.SaveInterval <= 0 {
		settings.SaveInterval = DefaultSettings().SaveInterval
	}
	return &Manager{
		db:       db,
		blobs:    blobs,
		settings: settings,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		lastSave: time.Now(),
	}
}

// Load restores the database from the latest snapshot. A missing
// snapshot is a normal first start; anything unreadable is fatal.
func (m *Manager) Load(ctx context.Context) (*store.Database, error) {
	if m.settings.InMem || m.blobs == nil {
		m.db = store.NewDatabase()
		return m.db, nil
	}

	data, err := m.blobs.Get(ctx, DefaultBlobName)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			pkg.WarnLog("no snapshot found, starting empty")
			m.db = store.NewDatabase()
			return m.db, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	state, err := Decode(data)
	if err != nil {
		return nil, err
	}
	db, err := store.Restore(state)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptFile, err)
	}

	pkg.InfoLog("restored", len(state.Tables), "tables from snapshot")
	m.db = db
	return db, nil
}

// Observe runs the trigger check after a successful write: snapshot
// when the write count reaches the threshold, or when the interval
// has elapsed with writes pending, whichever comes first.
func (m *Manager) Observe(ctx context.Context) {
	if m.settings.InMem || m.blobs == nil {
		return
	}

	writes := m.db.WritesSinceSave()
	if writes == 0 {
		return
	}
	if writes < m.settings.WriteThreshold && time.Since(m.last()) < m.settings.SaveInterval {
		return
	}
	if !m.limiter.Allow() {
		// the interval sweep will catch up
		return
	}

	go func() {
		if err := m.Save(ctx); err != nil {
			pkg.ErrorLog("snapshot save failed;", err)
		}
	}()
}

// Run sweeps on the save interval so a quiet period after a burst of
// writes still ends in a snapshot. Returns when ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	if m.settings.InMem || m.blobs == nil {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(m.settings.SaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if m.db.WritesSinceSave() == 0 {
				continue
			}
			if err := m.Save(context.WithoutCancel(ctx)); err != nil {
				pkg.ErrorLog("snapshot save failed;", err)
			}
		}
	}
}

// Save takes one consistent snapshot. The in-memory database stays
// authoritative on failure; the write counter only resets after the
// blob is durably stored.
func (m *Manager) Save(ctx context.Context) error {
	if m.settings.InMem || m.blobs == nil {
		return nil
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	var state *store.DatabaseState
	var pending int64
	pkg.RLockWrap(m.db, func() {
		pending = m.db.WritesSinceSave()
		state = m.db.State()
	})

	data, err := Encode(state, m.settings.Compression)
	if err != nil {
		return err
	}
	if err := m.blobs.Put(ctx, DefaultBlobName, data); err != nil {
		return err
	}

	m.db.ConsumeWrites(pending)
	m.lastMu.Lock()
	m.lastSave = time.Now()
	m.lastMu.Unlock()

	pkg.DebugLog("snapshot saved:", len(data), "bytes,", pending, "writes flushed")
	return nil
}

func (m *Manager) last() time.Time {
	m.lastMu.Lock()
	defer m.lastMu.Unlock()
	return m.lastSave
}
