package domain

// Identity names the owner of a cart for persistence purposes. A signed-in
// buyer is keyed by user ID; everyone else shares the guest identity.
type Identity struct {
	UserID string
}

// Guest is the identity of an unauthenticated session.
var Guest = Identity{}

func UserIdentity(userID string) Identity {
	return Identity{UserID: userID}
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// SlotKey is the storage slot the identity's cart persists under.
func (i Identity) SlotKey() string {
	if i.UserID == "" {
		return "cart_guest"
	}
	return "cart_" + i.UserID
}

func (i Identity) String() string {
	if i.UserID == "" {
		return "guest"
	}
	return "user:" + i.UserID
}
