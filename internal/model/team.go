package model

// Team groups accounts. Members holds Account IDs; order carries no meaning.
type Team struct {
	ID      string   `json:"id" bson:"_id"`
	Name    string   `json:"name" bson:"name"`
	Members []string `json:"members" bson:"members"`
}

func (t Team) DocumentID() string { return t.ID }

func (t Team) Fields() map[string]any {
	members := make([]string, len(t.Members))
	copy(members, t.Members)
	return map[string]any{
		"id":         t.ID,
		"name":       t.Name,
		FieldMembers: members,
	}
}

// HasMember reports whether the account ID is in the team
func (t Team) HasMember(accountID string) bool {
	for _, m := range t.Members {
		if m == accountID {
			return true
		}
	}
	return false
}
