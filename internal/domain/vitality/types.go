package vitality

import "time"

const (
	MinValue = 0
	MaxValue = 100

	DefaultLevel = 1
)

type Attribute string

const (
	Hunger      Attribute = "hunger"
	Mood        Attribute = "mood"
	Stamina     Attribute = "stamina"
	Cleanliness Attribute = "cleanliness"
	Health      Attribute = "health"
)

// Attributes lists every vitality attribute in the order gates report them.
var Attributes = []Attribute{Hunger, Mood, Stamina, Cleanliness, Health}

type Stats struct {
	Hunger      int `json:"hunger"`
	Mood        int `json:"mood"`
	Stamina     int `json:"stamina"`
	Cleanliness int `json:"cleanliness"`
	Health      int `json:"health"`
}

// Delta is a signed change per attribute.
type Delta struct {
	Hunger      int `json:"hunger"`
	Mood        int `json:"mood"`
	Stamina     int `json:"stamina"`
	Cleanliness int `json:"cleanliness"`
	Health      int `json:"health"`
}

type Pet struct {
	ID             string    `json:"pet_id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Stats          Stats     `json:"stats"`
	Experience     int       `json:"experience"`
	AdventureLevel int       `json:"adventure_level"`
	LastBonusDate  string    `json:"last_bonus_date,omitempty"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

const (
	EventPetAdopted       = "pet_adopted"
	EventPetInteracted    = "pet_interacted"
	EventPetDecayed       = "pet_decayed"
	EventAdventureStarted = "adventure_started"
	EventAdventureEnded   = "adventure_ended"
	EventAdventureAborted = "adventure_aborted"
)
