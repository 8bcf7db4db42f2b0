package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"delve-server/internal/domain"
	"delve-server/internal/network"
	"delve-server/pkg/api"
	"delve-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Service owns the running instances and routes client traffic into
// them by controlled entity. The set of instances is fixed before Run;
// after that the map is read-only, so routing needs no lock.
type Service struct {
	Hub *network.Broadcaster

	main      *Instance
	instances map[domain.EntityID]*Instance
}

// NewService wraps the main (human-controlled) instance.
func NewService(main *Instance) *Service {
	s := &Service{
		Hub:       main.Hub,
		main:      main,
		instances: make(map[domain.EntityID]*Instance),
	}
	s.instances[main.PlayerID] = main
	return s
}

// Attach registers an additional instance, keyed by its player entity.
// Call before Run.
func (s *Service) Attach(inst *Instance) {
	s.instances[inst.PlayerID] = inst
}

// Main is the instance the websocket gateway serves.
func (s *Service) Main() *Instance {
	return s.main
}

// Instances lists every attached instance, the main one first, the
// rest ordered by player ID.
func (s *Service) Instances() []*Instance {
	out := []*Instance{s.main}
	rest := make([]string, 0, len(s.instances))
	for id := range s.instances {
		if id != s.main.PlayerID {
			rest = append(rest, string(id))
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		out = append(out, s.instances[domain.EntityID(id)])
	}
	return out
}

// Run starts every instance loop and blocks until all of them return,
// so shutdown saves finish before the process exits.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, inst := range s.instances {
		wg.Add(1)
		go func(inst *Instance) {
			defer wg.Done()
			inst.Run(ctx)
		}(inst)
	}
	wg.Wait()
}

// Submit decodes a wire command and hands it to the instance that owns
// the acting entity. INIT short-circuits into a snapshot refresh.
func (s *Service) Submit(actor domain.EntityID, cmd api.ClientCommand) error {
	inst, ok := s.instances[actor]
	if !ok {
		return fmt.Errorf("no instance controls %q", actor)
	}

	if cmd.Action == api.ActionInit {
		inst.RefreshChan <- actor
		return nil
	}

	action, err := DecodeCommand(cmd)
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"actor":  actor,
			"action": cmd.Action,
		}).Warn("Command rejected.")
		return err
	}

	inst.CommandChan <- domain.InternalCommand{Actor: actor, Action: action}
	return nil
}
