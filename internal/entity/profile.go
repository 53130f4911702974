package entity

import (
	"bytes"
	"encoding/json"
)

// HostUser is the user object the Telegram runtime exposes in
// initDataUnsafe.user.
type HostUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

type UserProfile struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	Phone     string
	Email     string
}

// ProfileUpdate is the body of PUT /api/user/profile.
type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Stats is a read-only snapshot. Missing or malformed keys decode to zero.
type Stats struct {
	Balance        Number `json:"balance"`
	TotalLeads     Number `json:"totalLeads"`
	CompletedDeals Number `json:"completedDeals"`
	Earnings       Number `json:"earnings"`
}

// ProfileSnapshot is the body of GET /api/user/profile.
type ProfileSnapshot struct {
	Stats *Stats `json:"stats"`
	Leads []Lead `json:"leads"`
}

// UnmarshalJSON drops a stats value that is not an object instead of
// failing the whole snapshot.
func (p *ProfileSnapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Stats json.RawMessage `json:"stats"`
		Leads []Lead          `json:"leads"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Leads = raw.Leads
	p.Stats = nil
	if len(raw.Stats) > 0 {
		var stats Stats
		if err := json.Unmarshal(raw.Stats, &stats); err == nil && !bytes.Equal(bytes.TrimSpace(raw.Stats), []byte("null")) {
			p.Stats = &stats
		}
	}
	return nil
}

// StatsOrZero returns the snapshot stats, or zero stats when the backend
// omitted them.
func (p *ProfileSnapshot) StatsOrZero() Stats {
	if p == nil || p.Stats == nil {
		return Stats{}
	}
	return *p.Stats
}

func (p *ProfileSnapshot) LeadsOrEmpty() []Lead {
	if p == nil || p.Leads == nil {
		return []Lead{}
	}
	return p.Leads
}
