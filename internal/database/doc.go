// Package database provides the SQLite archive of imported clippings.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── clippings/       # Clipping rows and import sessions
//
// # Usage
//
//	db, err := database.NewDatabase("./clippings.db", false)
//	repo := clippings.NewRepository(db.DB)
//
//	session, err := repo.StartSession("My Clippings.txt")
//	result, err := repo.SaveClippings(session.ID, retained)
//	err = repo.CompleteSession(session.ID, stats)
//
// Rows are unique by the clipping identity (title, kind, location, content),
// so importing a re-synced export twice stores each annotation once.
package database
