// Package clippings provides database operations for archived clippings and
// the import sessions that stored them.
//
// # Usage
//
//	repo := clippings.NewRepository(db)
//	session, err := repo.StartSession(path)
//	result, err := repo.SaveClippings(session.ID, retained)
package clippings

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/clippings/internal/entities"
)

// Repository handles all clipping archive database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new clippings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveResult counts the outcome of SaveClippings.
type SaveResult struct {
	Created  int
	Existing int
}

// SessionStats is recorded on an import session when it completes.
type SessionStats struct {
	ClippingsSeen int
	ParseErrors   int
	Saved         SaveResult
}

// IdentityHash returns the hex SHA-256 of a clipping identity. Fields are
// length-prefixed so that no two distinct keys share an encoding.
func IdentityHash(key entities.Key) string {
	h := sha256.New()
	for _, field := range []string{
		key.DocumentTitle,
		key.Kind.String(),
		key.Location.String(),
		strconv.FormatBool(key.Location.IsRanged()),
		key.Content,
	} {
		fmt.Fprintf(h, "%d:%s|", len(field), field)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func toArchived(c entities.Clipping, sessionID string) entities.ArchivedClipping {
	title, author := entities.SplitTitleAuthor(c.DocumentTitle)
	return entities.ArchivedClipping{
		IdentityHash:  IdentityHash(c.Key()),
		DocumentTitle: c.DocumentTitle,
		Title:         title,
		Author:        author,
		Kind:          c.Kind.String(),
		LocationStart: c.Location.Start(),
		LocationEnd:   c.Location.End(),
		Ranged:        c.Location.IsRanged(),
		Content:       c.Content,
		AddedAt:       c.AddedAt,
		SessionID:     sessionID,
	}
}

// SaveClippings stores clippings not yet in the archive. Rows that already
// exist keep their original timestamp and session.
func (r *Repository) SaveClippings(sessionID string, clippings []entities.Clipping) (SaveResult, error) {
	var result SaveResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range clippings {
			row := toArchived(c, sessionID)
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "identity_hash"}},
				DoNothing: true,
			}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to save clipping for %q: %w", c.DocumentTitle, res.Error)
			}
			if res.RowsAffected == 0 {
				result.Existing++
			} else {
				result.Created++
			}
		}
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}
	return result, nil
}

// GetClippingsForDocument returns archived clippings of a document ordered by
// location start.
func (r *Repository) GetClippingsForDocument(documentTitle string) ([]entities.ArchivedClipping, error) {
	var rows []entities.ArchivedClipping
	err := r.db.Where("document_title = ?", documentTitle).
		Order("location_start ASC, location_end ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// CountClippings returns the number of archived clippings.
func (r *Repository) CountClippings() (int64, error) {
	var count int64
	err := r.db.Model(&entities.ArchivedClipping{}).Count(&count).Error
	return count, err
}

// StartSession creates a running import session for filePath.
func (r *Repository) StartSession(filePath string) (*entities.ImportSession, error) {
	session := &entities.ImportSession{
		ID:        uuid.NewString(),
		FilePath:  filePath,
		Status:    entities.ImportStatusRunning,
		StartedAt: time.Now(),
	}
	if err := r.db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to start import session: %w", err)
	}
	return session, nil
}

// CompleteSession marks a session completed with its final counts.
func (r *Repository) CompleteSession(id string, stats SessionStats) error {
	now := time.Now()
	return r.db.Model(&entities.ImportSession{}).Where("id = ?", id).Updates(map[string]any{
		"status":             entities.ImportStatusCompleted,
		"clippings_seen":     stats.ClippingsSeen,
		"clippings_created":  stats.Saved.Created,
		"clippings_existing": stats.Saved.Existing,
		"parse_errors":       stats.ParseErrors,
		"completed_at":       &now,
	}).Error
}

// FailSession marks a session failed with the error that stopped it.
func (r *Repository) FailSession(id string, cause error) error {
	now := time.Now()
	return r.db.Model(&entities.ImportSession{}).Where("id = ?", id).Updates(map[string]any{
		"status":       entities.ImportStatusFailed,
		"error":        cause.Error(),
		"completed_at": &now,
	}).Error
}

// GetSession retrieves an import session by ID.
func (r *Repository) GetSession(id string) (*entities.ImportSession, error) {
	var session entities.ImportSession
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}
