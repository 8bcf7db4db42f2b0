package engine

import (
	"delve-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// logger returns the instance-scoped structured entry. Narrative text
// for the player goes to inst.Log instead; the two sinks never mix.
func (inst *Instance) logger() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"instance": inst.ID,
		"tick":     inst.Scheduler.CurrentTick(),
	})
}
