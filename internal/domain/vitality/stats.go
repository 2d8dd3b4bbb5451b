package vitality

func Clamp(value, delta int) int {
	v := value + delta
	if v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}

func FullStats() Stats {
	return Stats{Hunger: MaxValue, Mood: MaxValue, Stamina: MaxValue, Cleanliness: MaxValue, Health: MaxValue}
}

func (s Stats) Apply(d Delta) Stats {
	return Stats{
		Hunger:      Clamp(s.Hunger, d.Hunger),
		Mood:        Clamp(s.Mood, d.Mood),
		Stamina:     Clamp(s.Stamina, d.Stamina),
		Cleanliness: Clamp(s.Cleanliness, d.Cleanliness),
		Health:      Clamp(s.Health, d.Health),
	}
}

// Normalize clamps values loaded from outside the model.
func (s Stats) Normalize() Stats {
	return s.Apply(Delta{})
}

// IsFull ignores health: full stats restores health rather than requiring it.
func (s Stats) IsFull() bool {
	return s.Hunger == MaxValue && s.Mood == MaxValue && s.Stamina == MaxValue && s.Cleanliness == MaxValue
}

func (s Stats) Get(attr Attribute) int {
	switch attr {
	case Hunger:
		return s.Hunger
	case Mood:
		return s.Mood
	case Stamina:
		return s.Stamina
	case Cleanliness:
		return s.Cleanliness
	case Health:
		return s.Health
	default:
		return 0
	}
}

// ZeroAttribute returns the first attribute sitting at the floor.
func (s Stats) ZeroAttribute() (Attribute, bool) {
	for _, attr := range Attributes {
		if s.Get(attr) == MinValue {
			return attr, true
		}
	}
	return "", false
}

func (d Delta) With(attr Attribute, amount int) Delta {
	switch attr {
	case Hunger:
		d.Hunger += amount
	case Mood:
		d.Mood += amount
	case Stamina:
		d.Stamina += amount
	case Cleanliness:
		d.Cleanliness += amount
	case Health:
		d.Health += amount
	}
	return d
}

func (d Delta) Negate() Delta {
	return Delta{Hunger: -d.Hunger, Mood: -d.Mood, Stamina: -d.Stamina, Cleanliness: -d.Cleanliness, Health: -d.Health}
}
