package profile

import "maps"

// UserContext is the process-wide picture of the user that prompts are built from.
type UserContext struct {
	ProductivityScore int             `json:"productivityScore"`
	CompletedToday    int             `json:"completedToday"`
	PeakHours         []string        `json:"peakHours"`
	WorkStyle         string          `json:"workStyle"`
	Preferences       map[string]bool `json:"preferences"`
}

func Defaults() UserContext {
	return UserContext{
		ProductivityScore: 87,
		CompletedToday:    12,
		PeakHours:         []string{"9 AM - 11 AM", "2 PM - 4 PM"},
		WorkStyle:         "focused sprints",
		Preferences: map[string]bool{
			"notifications": true,
			"aiSuggestions": true,
			"timeBlocking":  true,
		},
	}
}

func (c UserContext) clone() UserContext {
	c.PeakHours = append([]string(nil), c.PeakHours...)
	c.Preferences = maps.Clone(c.Preferences)
	return c
}

func (c *UserContext) normalize() {
	c.ProductivityScore = min(max(c.ProductivityScore, 0), 100)
	c.CompletedToday = max(c.CompletedToday, 0)
	if c.Preferences == nil {
		c.Preferences = map[string]bool{}
	}
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	ProductivityScore *int            `json:"productivity_score"`
	WorkStyle         *string         `json:"work_style"`
	PeakHours         []string        `json:"peak_hours"`
	Preferences       map[string]bool `json:"preferences"`
}
