// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── dives/           # Dive record list/insert operations
//	├── settings/        # Application settings
//	└── audit/           # Import/export audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific
// operations:
//
//	db, err := database.NewDatabase("./scubalog.db")
//
//	divesRepo := dives.NewRepository(db.DB)
//	settingsRepo := settings.NewRepository(db.DB)
//
//	all, err := divesRepo.ListAll()
//
// The interchange engine never talks to gorm directly; it consumes
// dives.Repository through the services.DiveStore interface, which only
// exposes list and insert. Updates and deletes belong to the record-editing
// surface, not to the engine.
package database
