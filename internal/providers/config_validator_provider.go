package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"github.com/itkutus/potbot/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}

	// Cross-field constraints the tag language cannot express.
	if cv.conf.Leveling.Multiplier <= 1 {
		return fmt.Errorf("leveling.multiplier must be greater than 1, got %v", cv.conf.Leveling.Multiplier)
	}
	if cv.conf.Xp.BonusXpMax < cv.conf.Xp.BonusXpMin {
		return fmt.Errorf("xp.bonusXpMax (%d) must not be below xp.bonusXpMin (%d)",
			cv.conf.Xp.BonusXpMax, cv.conf.Xp.BonusXpMin)
	}
	if cv.conf.Xp.BonusXpChance < 0 || cv.conf.Xp.BonusXpChance > 1 {
		return fmt.Errorf("xp.bonusXpChance must be within [0, 1], got %v", cv.conf.Xp.BonusXpChance)
	}
	return nil
}
