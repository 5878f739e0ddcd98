package domain

import "time"

// ActivityEntry is a single line in the audit trail: who did what, to whom.
type ActivityEntry struct {
	Actor     string    // email of the account performing the action
	Action    string    // e.g. "register", "login", "role_change", "delete"
	Subject   string    // affected user id, empty for self-service actions
	Detail    string    // optional free-form detail (e.g. new role name)
	Timestamp time.Time
}
