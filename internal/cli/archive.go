package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/database/clippings"
	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/importers"
)

const lockRetryDelay = 100 * time.Millisecond

// archiveClippings stores the exported clippings in the SQLite archive under
// an exclusive file lock, recording the run as an import session.
func archiveClippings(ctx context.Context, cfg *config.Config, clippingsPath string, exported []entities.Clipping, result importers.ImportResult) error {
	absDBPath, err := filepath.Abs(cfg.Archive.Path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for archive: %w", err)
	}

	lock := flock.New(absDBPath + config.LockFileSuffix)
	lockCtx, cancel := context.WithTimeout(ctx, cfg.Archive.LockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("acquire archive lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("archive %s is locked by another process", absDBPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Printf("WARNING: failed to release archive lock: %v", err)
		}
	}()

	db, err := database.NewDatabase(absDBPath, cfg.Global.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize archive: %w", err)
	}
	defer db.Close()

	repo := clippings.NewRepository(db.DB)
	session, err := repo.StartSession(clippingsPath)
	if err != nil {
		return err
	}

	saved, err := repo.SaveClippings(session.ID, exported)
	if err != nil {
		if failErr := repo.FailSession(session.ID, err); failErr != nil {
			log.Printf("WARNING: failed to record failed import session %s: %v", session.ID, failErr)
		}
		return fmt.Errorf("failed to archive clippings: %w", err)
	}

	err = repo.CompleteSession(session.ID, clippings.SessionStats{
		ClippingsSeen: result.RecordsParsed,
		ParseErrors:   result.ParseErrors,
		Saved:         saved,
	})
	if err != nil {
		return fmt.Errorf("failed to complete import session: %w", err)
	}

	if cfg.Global.Verbose {
		log.Printf("Archived to %s: %d new, %d already present (session %s)",
			absDBPath, saved.Created, saved.Existing, session.ID)
	}
	return nil
}
