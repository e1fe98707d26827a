/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package technique

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/maaythm/dctimer/vclock"
)

// UnsupportedOrdinal is reserved for dynamic interception of
// time-reading calls, which is not implemented
const UnsupportedOrdinal = 7

// Runner walks the candidate techniques in ordinal order and stops at
// the first one that synchronizes. Strictly sequential: at most one
// technique is ever active.
type Runner struct {
	techniques []Technique
}

// NewRunner builds the full ordered technique chain
func NewRunner(exec Executor, clock *vclock.Clock) *Runner {
	return &Runner{
		techniques: []Technique{
			newNTPDate(exec),
			newNTPD(exec),
			newTimesyncd(exec),
			newOpenNTPD(exec),
			newDateLoop(exec, clock),
			newFaketime(exec, clock),
		},
	}
}

// Techniques returns the ordered candidate set
func (r *Runner) Techniques() []Technique {
	return r.techniques
}

// Run tries candidates until one synchronizes against server:port.
// forced narrows the candidate set to a single ordinal; zero means try
// them all. On total failure the returned error is an *ExhaustedError
// carrying one Attempt per failed candidate, in order.
func (r *Runner) Run(server string, port int, forced int) (Technique, error) {
	// checked before any probing
	if forced == UnsupportedOrdinal {
		return nil, ErrUnsupported
	}
	candidates := r.techniques
	if forced > 0 {
		if forced > len(r.techniques) {
			return nil, fmt.Errorf("unknown technique %d", forced)
		}
		candidates = r.techniques[forced-1 : forced]
	}

	var attempts []Attempt
	for _, tech := range candidates {
		if err := tech.Check(); err != nil {
			logAttemptFailure(tech, "not available", err)
			attempts = append(attempts, Attempt{Ordinal: tech.Ordinal(), Name: tech.Name(), Reason: err.Error()})
			continue
		}
		log.Debugf("trying technique %d: %s", tech.Ordinal(), tech.Name())
		if err := tech.Sync(server, port); err != nil {
			logAttemptFailure(tech, "failed", err)
			attempts = append(attempts, Attempt{Ordinal: tech.Ordinal(), Name: tech.Name(), Reason: err.Error()})
			continue
		}
		return tech, nil
	}
	return nil, &ExhaustedError{Attempts: attempts}
}

func logAttemptFailure(tech Technique, what string, err error) {
	if errors.Is(err, ErrNoSystemd) || strings.Contains(err.Error(), noSystemdSignature) {
		log.Warning("this host looks like a container or a system without systemd")
		log.Warning("system-wide techniques cannot work here, only faketime (6) can succeed")
		return
	}
	log.Debugf("technique %d %s %s: %v", tech.Ordinal(), tech.Name(), what, err)
}
