package ports

// Session identifies the acting user. It is populated from JWT claims by the
// transport layer and passed explicitly into every service call; there is no
// ambient current-user state anywhere in the core.
type Session struct {
	UserID string
	Email  string
	Name   string
}
