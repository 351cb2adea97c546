package types

import "time"

type IconType string

const (
	IconUser    IconType = "USER"
	IconBell    IconType = "BELL"
	IconSetting IconType = "SETTING"
)

// Notification is a role-targeted or user-targeted message emitted as a
// side effect of workflow actions. Read-only fan-out; never part of the
// state machine itself.
type Notification struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Timestamp   time.Time `db:"timestamp"`
	IconType    IconType  `db:"icon_type"`
	Role        Role      `db:"role"`
	UserID      *string   `db:"user_id"`
}
