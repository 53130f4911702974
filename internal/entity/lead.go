package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type LeadStatus string

const (
	LeadStatusPending    LeadStatus = "pending"
	LeadStatusProcessing LeadStatus = "processing"
	LeadStatusCompleted  LeadStatus = "completed"
	LeadStatusCancelled  LeadStatus = "cancelled"
)

// LeadID keeps the identifier exactly as the backend sent it. Numbers and
// strings are both accepted.
type LeadID string

func (id *LeadID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LeadID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("lead id: %w", err)
	}
	*id = LeadID(n.String())
	return nil
}

func (id LeadID) String() string {
	return string(id)
}

// Lead is created server side and never mutated by the client.
type Lead struct {
	ID         LeadID     `json:"id"`
	ClientName string     `json:"clientName"`
	Status     LeadStatus `json:"status"`
	CreatedAt  string     `json:"createdAt"`
}

// LeadRequest is the body of POST /api/leads.
type LeadRequest struct {
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	Service     string `json:"service"`
	Description string `json:"description"`
	UserID      int64  `json:"userId"`
}
