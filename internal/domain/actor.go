package domain

import "time"

// Role classifies the party requesting a transition.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleDriver   Role = "DRIVER"
	RoleSystem   Role = "SYSTEM"
)

// Actor is the explicit caller context threaded through every transition,
// replacing any notion of an ambient "current user".
type Actor struct {
	ID   string
	Role Role
}

// Clock supplies the current time to components that would otherwise read it
// globally. Tests substitute a fixed clock.
type Clock func() time.Time
