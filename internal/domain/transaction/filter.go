package transaction

import "time"

// Filter narrows transaction listings. Zero values mean "no constraint".
type Filter struct {
	Username  string
	Usernames []string
	Type      string
	MinDate   *time.Time
	MaxDate   *time.Time
	MinAmount *float64
	MaxAmount *float64
}
