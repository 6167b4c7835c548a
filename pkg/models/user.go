package models

// User is the authenticated account vocabulary data syncs under.
// Token acquisition happens outside this core; we only carry the stable
// identity and display fields the server hands back.
type User struct {
	ID          string `json:"id" db:"id"`
	Email       string `json:"email" db:"email"`
	DisplayName string `json:"displayName" db:"display_name"`
}
