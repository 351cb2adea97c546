package types

import "time"

type Role string

const (
	RolePersonnel  Role = "PERSONNEL"
	RoleStaff      Role = "STAFF"
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
)

// IsReviewer reports whether the role may act on submissions.
func (r Role) IsReviewer() bool {
	return r == RoleAdmin || r == RoleStaff
}

type User struct {
	ID            string     `db:"id"`
	Name          string     `db:"name"`
	Email         string     `db:"email"`
	PhoneNumber   *string    `db:"phone_number"`
	NssNumber     *string    `db:"nss_number"`
	StaffID       *string    `db:"staff_id"`
	Role          Role       `db:"role"`
	DepartmentID  *string    `db:"department_id"`
	SignaturePath *string    `db:"signature_path"`
	StampPath     *string    `db:"stamp_path"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type Department struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	SupervisorID *string    `db:"supervisor_id"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

// Actor is the pre-authenticated caller descriptor handed to the engine
// by the HTTP layer. The engine never validates credentials itself.
type Actor struct {
	ID   string
	Role Role
}
