package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"wolwake/internal/models"
	"wolwake/internal/providers"
	"wolwake/internal/snapshot/interfaces"
	"wolwake/internal/structures"

	json "github.com/goccy/go-json"
)

var (
	ErrSnapshotMissing = errors.New("snapshot file does not exist")
	ErrSnapshotCorrupt = errors.New("snapshot file is corrupt")
	ErrLockTimeout     = errors.New("timed out waiting for snapshot lock")
)

const (
	lockSuffix   = ".lock"
	backupSuffix = ".prev.zst"
)

// FileManager persists the snapshot as a single JSON document. Writers hold an
// exclusive lock on <path>.lock for the whole read-modify-write.
type FileManager struct {
	path       string
	lockWait   time.Duration
	backup     bool
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		path:       conf.Cache.Path,
		lockWait:   conf.Cache.LockWait(),
		backup:     conf.Cache.Backup,
		compressor: compressor,
		logger:     logger,
	}
}

func NewStore(fm *FileManager) interfaces.StoreInterface {
	return fm
}

func (f *FileManager) Path() string {
	return f.path
}

func (f *FileManager) BackupPath() string {
	return f.path + backupSuffix
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

func (f *FileManager) Load() (*models.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotMissing, f.path)
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if snap.Reserves == nil {
		snap.Reserves = []*models.Reservation{}
	}
	return &snap, nil
}

func (f *FileManager) Save(snap *models.Snapshot) error {
	jsonData, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(f.path, jsonData)
}

func writeAtomic(fileName string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return nil, err
	}
	return acquireLock(ctx, f.path+lockSuffix, f.lockWait)
}

// Update loads the snapshot, applies fn and persists the result if fn reports a change.
// Load errors are returned untouched so callers can tell a missing file from a corrupt one.
func (f *FileManager) Update(ctx context.Context, fn interfaces.UpdateFunc) error {
	unlock, err := f.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	snap, err := f.Load()
	if err != nil {
		return err
	}

	changed, err := fn(snap)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := f.Save(snap); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// Replace swaps in the snapshot returned by build. The file being replaced is archived first
// when backups are enabled; an unreadable previous file is logged and build receives nil.
func (f *FileManager) Replace(ctx context.Context, build interfaces.BuildFunc) error {
	unlock, err := f.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	var previous *models.Snapshot
	raw, err := os.ReadFile(f.path)
	switch {
	case err == nil:
		previous, err = decode(raw)
		if err != nil {
			f.logger.Warnf(providers.TypeRefresh, "Previous snapshot unreadable, flags will not be carried over: %s", err)
		}
		if f.backup {
			if err := f.archive(raw); err != nil {
				f.logger.Warnf(providers.TypeRefresh, "Unable to archive previous snapshot: %s", err)
			}
		}
	case os.IsNotExist(err):
		f.logger.Infof(providers.TypeRefresh, "No previous snapshot at %s", f.path)
	default:
		f.logger.Warnf(providers.TypeRefresh, "Unable to read previous snapshot: %s", err)
	}

	if err := f.Save(build(previous)); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

func (f *FileManager) archive(raw []byte) error {
	data, err := f.compressor.Compress(raw)
	if err != nil {
		return err
	}
	return writeAtomic(f.BackupPath(), data)
}

// LoadBackup decodes the snapshot archived by the last Replace.
func (f *FileManager) LoadBackup() (*models.Snapshot, error) {
	data, err := os.ReadFile(f.BackupPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotMissing, f.BackupPath())
		}
		return nil, err
	}
	raw, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return decode(raw)
}

// RestoreBackup puts the archived snapshot back in place of the current one.
func (f *FileManager) RestoreBackup(ctx context.Context) (*models.Snapshot, error) {
	unlock, err := f.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, err := f.LoadBackup()
	if err != nil {
		return nil, err
	}
	if err := f.Save(snap); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}
	f.logger.Infof(providers.TypeRefresh, "Restored snapshot from %s (%d reservations)", f.BackupPath(), len(snap.Reserves))
	return snap, nil
}
