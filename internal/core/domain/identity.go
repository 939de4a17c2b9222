package domain

// Identity is the authenticated subject as seen by the core services.
// It is produced by token validation at the boundary; services never
// parse credentials or tokens themselves.
type Identity struct {
	UserID  uint
	Email   string
	IsAdmin bool
}
