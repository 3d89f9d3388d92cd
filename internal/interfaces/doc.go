// Package interfaces documents the core abstractions used throughout the application.
//
// # Data Access Interfaces
//
//   - services.DiveStore: persistence surface of the interchange engine
//     (internal/services/interfaces.go)
//   - http.DiveStore: persistence surface of the dive controllers
//     (internal/http/dives.go)
//
// # Audit Interfaces
//
//   - http.AuditLogger: audit trail for import/export operations
//     (internal/http/interchange.go)
//
// # Adding a New Interchange Format
//
// To add support for a new file format (e.g. Subsurface XML):
//
//  1. Add a codec to internal/interchange/ with an Import function returning
//     []entities.Dive and an Export function rendering the whole collection.
//     Parse failures use the shared error taxonomy in
//     internal/interchange/errors.go.
//
//  2. Add a Format constant and an extension mapping in
//     internal/services/interchange.go, and route it in the service's
//     parse and Export methods.
//
//  3. Nothing else changes: preview, conflict detection, renaming, and
//     commit are format-independent.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they
// satisfy their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
