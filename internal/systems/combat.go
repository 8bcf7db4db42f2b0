package systems

import (
	"math/rand"
	"strings"

	"delve-server/internal/domain"
	"delve-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MeleeOutcome reports one resolved swing.
type MeleeOutcome struct {
	Damage int
	Slain  bool
}

// ResolveMelee rolls attack against defense and applies the result. The
// caller guarantees target is a living actor; a swing never fails, it
// just may do no damage. Attack rolls 1..=melee damage, defense rolls
// 0..=defense, the difference is clamped at zero.
func ResolveMelee(w *domain.World, log *domain.MessageLog, rng *rand.Rand, tick int64, attacker, target *domain.Entity) MeleeOutcome {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"system":   "combat",
		"attacker": attacker.Name,
		"target":   target.Name,
	})

	maxDamage := w.MeleeDamage(attacker)
	if maxDamage < 1 {
		maxDamage = 1
	}
	attackRoll := rng.Intn(maxDamage) + 1
	defenseRoll := rng.Intn(w.Defense(target) + 1)

	damage := attackRoll - defenseRoll
	if damage < 0 {
		damage = 0
	}

	if damage > 0 {
		log.Add(tick, domain.TierCombat, "%s attacks %s for %d hit points.",
			capitalize(attacker.Name), target.Name, damage)
	} else {
		log.Add(tick, domain.TierCombat, "%s attacks %s but does no damage.",
			capitalize(attacker.Name), target.Name)
	}

	slain := ApplyDamage(w, log, tick, target, damage)

	combatLogger.WithFields(logrus.Fields{
		"attack_roll":  attackRoll,
		"defense_roll": defenseRoll,
		"damage":       damage,
		"target_hp":    target.Fighter.HP,
		"slain":        slain,
	}).Debug("Melee resolved.")

	return MeleeOutcome{Damage: damage, Slain: slain}
}

// ApplyDamage hurts target and handles the death transition. Returns
// true when this write killed it. Safe to call on corpses: HP writes at
// zero never re-trigger death.
func ApplyDamage(w *domain.World, log *domain.MessageLog, tick int64, target *domain.Entity, amount int) bool {
	if target.Fighter == nil {
		return false
	}
	wasAlive := target.IsAlive()
	target.Fighter.TakeDamage(amount)
	if wasAlive && target.Fighter.HP == 0 {
		Kill(w, log, tick, target)
		return true
	}
	return false
}

// Kill turns a living actor into remains: behavior gone for good, tile
// no longer blocked, corpse glyph and name. Reached only on the
// transition to zero HP.
func Kill(w *domain.World, log *domain.MessageLog, tick int64, target *domain.Entity) {
	if target.Kind == domain.KindPlayer {
		log.Add(tick, domain.TierDeath, "You died!")
	} else {
		log.Add(tick, domain.TierDeath, "%s is dead!", capitalize(target.Name))
	}

	logger.Log.WithFields(logrus.Fields{
		"system": "combat",
		"entity": target.Name,
		"id":     target.ID,
		"pos":    target.Pos,
	}).Info("Actor died.")

	target.Behavior = nil
	target.Blocks = false
	target.Glyph = domain.MakeGlyph(0xBF0000, '%')
	target.RenderOrder = domain.RenderCorpse
	target.Name = "remains of " + target.Name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
