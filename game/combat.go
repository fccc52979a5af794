package game

// attack carries the parameters of one shot or strike.
type attack struct {
	HitOn    int
	Strength int
	AP       int
	Damage   int
}

// woundTarget returns the d6 target to wound toughness t at strength s.
func woundTarget(s, t int) int {
	switch {
	case s >= 2*t:
		return 2
	case s > t:
		return 3
	case s == t:
		return 4
	case 2*s <= t:
		return 6
	default:
		return 5
	}
}

// saveTarget returns the d6 target for the defender's best save against
// an attack with the given armor penetration, and whether a save exists
// at all. AP worsens the armor save; cover improves it by one to a
// floor of 2. The invulnerable save ignores both and is used when
// lower.
func saveTarget(armor, invul, ap int, cover bool) (int, bool) {
	eff := armor + ap
	if cover {
		eff--
	}
	if eff < 2 {
		eff = 2
	}
	if invul < eff {
		eff = invul
	}
	if eff > 6 {
		return 0, false
	}
	return eff, true
}

// resolveAttack rolls one complete attack sequence against target and
// applies any damage. Dice are consumed strictly in hit, wound, save
// order so scripted rolls replay exactly. The caller removes the target
// if it dies.
func (gs *GameState) resolveAttack(prof attack, target *Unit, cover bool) *AttackDice {
	d := &AttackDice{HitOn: prof.HitOn, Cover: cover}
	d.HitRoll = gs.roller.D6()
	if d.HitRoll < d.HitOn {
		return d
	}
	d.WoundOn = woundTarget(prof.Strength, target.Toughness)
	d.WoundRoll = gs.roller.D6()
	if d.WoundRoll < d.WoundOn {
		return d
	}
	if saveOn, ok := saveTarget(target.Armor, target.Invul, prof.AP, cover); ok {
		d.SaveOn = saveOn
		d.SaveRoll = gs.roller.D6()
		if d.SaveRoll >= d.SaveOn {
			return d
		}
	} else {
		d.NoSave = true
	}
	d.Damage = prof.Damage
	target.HP -= prof.Damage
	if target.HP < 0 {
		target.HP = 0
	}
	return d
}
