package model

// Account represents a person taking part in the tracker
type Account struct {
	ID           string `json:"id" bson:"_id"`
	Username     string `json:"username,omitempty" bson:"username,omitempty"`
	Email        string `json:"email" bson:"email"`
	Name         string `json:"name" bson:"name"`
	Age          int    `json:"age" bson:"age"`
	PasswordHash string `json:"-" bson:"password_hash,omitempty"` // bcrypt, never the clear password
}

// Key returns the name other records use to refer to this account:
// the username when present, otherwise the display name.
func (a Account) Key() string {
	if a.Username != "" {
		return a.Username
	}
	return a.Name
}

func (a Account) DocumentID() string { return a.ID }

func (a Account) Fields() map[string]any {
	doc := map[string]any{
		"id":    a.ID,
		"email": a.Email,
		"name":  a.Name,
		"age":   a.Age,
	}
	if a.Username != "" {
		doc["username"] = a.Username
	}
	if a.PasswordHash != "" {
		doc["password_hash"] = a.PasswordHash
	}
	return doc
}
