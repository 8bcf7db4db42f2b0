package api

import "errors"

// Validator is implemented by payloads that can reject themselves
// before the engine ever sees them.
type Validator interface {
	Validate() error
}

func (p DirectionPayload) Validate() error {
	if p.Dx == 0 && p.Dy == 0 {
		return errors.New("movement vector cannot be zero")
	}
	if p.Dx < -1 || p.Dx > 1 || p.Dy < -1 || p.Dy > 1 {
		return errors.New("movement step too large")
	}
	return nil
}

func (p ItemPayload) Validate() error {
	return validateKey(p.Key)
}

func (p UsePayload) Validate() error {
	if err := validateKey(p.Key); err != nil {
		return err
	}
	if p.Target != nil {
		return p.Target.Validate()
	}
	return nil
}

func (p PositionPayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return errors.New("position out of bounds")
	}
	return nil
}

func validateKey(key string) error {
	if len(key) != 1 || key[0] < 'a' || key[0] > 'z' {
		return errors.New("key must be a single letter a-z")
	}
	return nil
}
