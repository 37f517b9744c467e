package model

// Workout is a suggested training plan
type Workout struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
	Duration    int    `json:"duration" bson:"duration"` // minutes
}

func (w Workout) DocumentID() string { return w.ID }

func (w Workout) Fields() map[string]any {
	return map[string]any{
		"id":          w.ID,
		"name":        w.Name,
		"description": w.Description,
		"duration":    w.Duration,
	}
}
