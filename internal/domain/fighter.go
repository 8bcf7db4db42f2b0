package domain

// Fighter holds the combat state of an actor. The values here are base
// values; effective melee damage, delay and defense consult equipment
// through the World, which can resolve inventory IDs.
type Fighter struct {
	HP            int `json:"hp"`
	MaxHP         int `json:"maxHp"`
	BaseDefense   int `json:"baseDefense"`
	UnarmedDamage int `json:"unarmedDamage"`
	MoveDelay     int `json:"moveDelay"`
	MeleeDelay    int `json:"meleeDelay"`
}

// SetHP writes HP clamped into [0, MaxHP] and returns the applied
// delta. Every HP mutation goes through here.
func (f *Fighter) SetHP(v int) int {
	old := f.HP
	if v < 0 {
		v = 0
	}
	if v > f.MaxHP {
		v = f.MaxHP
	}
	f.HP = v
	return f.HP - old
}

// Heal raises HP and returns the amount actually recovered.
func (f *Fighter) Heal(amount int) int {
	return f.SetHP(f.HP + amount)
}

// TakeDamage lowers HP and returns the amount actually lost.
func (f *Fighter) TakeDamage(amount int) int {
	return -f.SetHP(f.HP - amount)
}
