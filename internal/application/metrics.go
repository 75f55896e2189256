package application

import "expvar"

// Exposed on /debug/vars when debug metrics are enabled.
var (
	registerTotal         = expvar.NewInt("auth_register_total")
	registerConflictTotal = expvar.NewInt("auth_register_conflict_total")
	loginTotal            = expvar.NewInt("auth_login_total")
	loginFailedTotal      = expvar.NewInt("auth_login_failed_total")
)
