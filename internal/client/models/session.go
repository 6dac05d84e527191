package models

// Session is the three-valued login state of a client instance:
// SessionUnknown until the persisted identity has been checked, then either
// SessionLoggedOut or SessionLoggedIn.
type Session interface {
	isSession()
}

type SessionUnknown struct{}

type SessionLoggedOut struct{}

type SessionLoggedIn struct {
	User User
}

func (SessionUnknown) isSession()   {}
func (SessionLoggedOut) isSession() {}
func (SessionLoggedIn) isSession()  {}
