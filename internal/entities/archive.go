package entities

import (
	"time"
)

type ImportStatus string

const (
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ArchivedClipping is the stored form of a clipping. IdentityHash is derived
// from the clipping Key, so re-importing the same annotation never adds a row.
type ArchivedClipping struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	IdentityHash  string    `gorm:"uniqueIndex;size:64" json:"identity_hash"`
	DocumentTitle string    `gorm:"index;size:512" json:"document_title"`
	Title         string    `gorm:"size:512" json:"title"`
	Author        string    `gorm:"index;size:256" json:"author,omitempty"`
	Kind          string    `gorm:"size:20" json:"kind"`
	LocationStart int       `json:"location_start"`
	LocationEnd   int       `json:"location_end"`
	Ranged        bool      `json:"ranged"`
	Content       string    `gorm:"type:text" json:"content"`
	AddedAt       time.Time `json:"added_at"`

	// SessionID references the ImportSession that first stored the row.
	SessionID string    `gorm:"index;size:36" json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ArchivedClipping) TableName() string {
	return "clippings"
}

type ImportSession struct {
	ID                string       `gorm:"primaryKey;size:36" json:"id"`
	FilePath          string       `gorm:"size:1024" json:"file_path"`
	Status            ImportStatus `gorm:"size:20;default:'running'" json:"status"`
	ClippingsSeen     int          `json:"clippings_seen"`
	ClippingsCreated  int          `json:"clippings_created"`
	ClippingsExisting int          `json:"clippings_existing"`
	ParseErrors       int          `json:"parse_errors"`
	Error             string       `gorm:"type:text" json:"error,omitempty"`
	StartedAt         time.Time    `json:"started_at"`
	CompletedAt       *time.Time   `json:"completed_at,omitempty"`
}

func (ImportSession) TableName() string {
	return "import_sessions"
}
