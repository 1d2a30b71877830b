package model

// Roles set by the upstream auth gateway.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// Actor identifies the caller on whose behalf a request runs. Authentication
// itself happens upstream; this service only enforces ownership.
type Actor struct {
	ID   string
	Role string
}

// CanModify reports whether the actor may mutate a resource owned by ownerID.
func (a Actor) CanModify(ownerID string) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return a.ID != "" && a.ID == ownerID
}
