package models

import "time"

// Profile is the durable record of one chat user. Empty Team and Email mean
// the step has not been completed yet.
type Profile struct {
	ID            int64      `db:"id"`
	DisplayName   string     `db:"display_name"`
	Handle        string     `db:"handle"`
	Phone         string     `db:"phone"`
	PhoneSharedAt *time.Time `db:"phone_shared_at"`
	Team          string     `db:"team"`
	Email         string     `db:"email"`
	GrantedAt     *time.Time `db:"granted_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// Granted reports whether access was established for the current email.
func (p *Profile) Granted() bool {
	return p != nil && p.GrantedAt != nil
}

// TeamStat is one row of the per-team summary.
type TeamStat struct {
	Team    string
	Total   int
	Granted int
}
