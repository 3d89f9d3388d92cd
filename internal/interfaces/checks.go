package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/tmakela/scubalog/internal/audit"
	"github.com/tmakela/scubalog/internal/database/dives"
	"github.com/tmakela/scubalog/internal/http"
	"github.com/tmakela/scubalog/internal/services"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// DiveStore implementations
var _ services.DiveStore = (*dives.Repository)(nil)
var _ http.DiveStore = (*dives.Repository)(nil)

// =============================================================================
// Audit
// =============================================================================

// AuditLogger implementations
var _ http.AuditLogger = (*audit.Service)(nil)
