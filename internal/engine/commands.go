package engine

import (
	"encoding/json"
	"fmt"

	"delve-server/internal/domain"
	"delve-server/pkg/api"
)

// DecodeCommand turns a wire command into a domain Action. Payloads are
// validated before decode completes, so the resolver only ever sees
// well-formed parameters. Decode failures are the client's problem and
// never reach the simulation.
func DecodeCommand(cmd api.ClientCommand) (domain.Action, error) {
	kind := domain.ParseActionKind(cmd.Action)

	switch kind {
	case domain.ActionWait, domain.ActionPickUp, domain.ActionDescend:
		return domain.Action{Kind: kind}, nil

	case domain.ActionMove, domain.ActionMelee, domain.ActionBump:
		var p api.DirectionPayload
		if err := decodePayload(cmd.Payload, &p); err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Kind: kind, Dx: p.Dx, Dy: p.Dy}, nil

	case domain.ActionDrop, domain.ActionWield, domain.ActionWear:
		var p api.ItemPayload
		if err := decodePayload(cmd.Payload, &p); err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Kind: kind, Key: p.Key}, nil

	case domain.ActionUse:
		var p api.UsePayload
		if err := decodePayload(cmd.Payload, &p); err != nil {
			return domain.Action{}, err
		}
		action := domain.Action{Kind: kind, Key: p.Key}
		if p.Target != nil {
			action.Target = &domain.Position{X: p.Target.X, Y: p.Target.Y}
		}
		return action, nil

	default:
		return domain.Action{}, fmt.Errorf("unknown action %q", cmd.Action)
	}
}

// decodePayload unmarshals into p and runs its self-check.
func decodePayload(raw json.RawMessage, p api.Validator) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return p.Validate()
}
