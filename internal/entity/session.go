package entity

import "sync"

// Session carries the identity of one partner for the lifetime of a Mini App
// (or chat) session. It is never persisted.
type Session struct {
	mu      sync.RWMutex
	user    *HostUser
	profile UserProfile
}

func NewSession() *Session {
	return &Session{}
}

// Bind stores the host user and seeds the profile from it.
func (s *Session) Bind(u HostUser) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := u
	s.user = &user
	s.profile = UserProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Phone:     s.profile.Phone,
		Email:     s.profile.Email,
	}
}

func (s *Session) User() (HostUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return HostUser{}, false
	}
	return *s.user, true
}

// UserID returns 0 when no host user is bound.
func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return 0
	}
	return s.user.ID
}

func (s *Session) Profile() UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// ApplyProfileUpdate records a profile update the backend accepted.
func (s *Session) ApplyProfileUpdate(u ProfileUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile.FirstName = u.FirstName
	s.profile.LastName = u.LastName
	s.profile.Phone = u.Phone
	s.profile.Email = u.Email
}
