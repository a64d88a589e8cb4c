package team

import "time"

// Team is a read-only collaborator from the engine's perspective;
// membership management happens elsewhere.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id,omitempty"`
	JoinCode  string    `json:"join_code,omitempty"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}
