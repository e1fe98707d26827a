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

	"github.com/maaythm/dctimer/vclock"
)

// dateLoopTechnique is technique 5: force the system clock to the
// extrapolated reference time with date -s. Works against any server
// port since the timestamp comes from the virtual clock, not from a
// live query.
type dateLoopTechnique struct {
	base
	clock *vclock.Clock
	// resetNeeded is set only after the clock was actually stepped
	resetNeeded bool
}

func newDateLoop(exec Executor, clock *vclock.Clock) *dateLoopTechnique {
	return &dateLoopTechnique{
		base: base{
			name:    "dynamic date loop",
			ordinal: 5,
			caps: Capabilities{
				SupportsCustomPort: true,
			},
			exec: exec,
		},
		clock: clock,
	}
}

func (t *dateLoopTechnique) Check() error {
	if !isLinux() {
		return t.fail(errors.New("dynamic date loop is only supported on Linux"))
	}
	if !isRoot() {
		return t.privilegeError()
	}
	return nil
}

func (t *dateLoopTechnique) Sync(_ string, _ int) error {
	now, err := t.clock.Now()
	if err != nil {
		return t.fail(err)
	}
	if r := t.exec.Run("date", "-s", fmt.Sprintf("@%d", now.Unix())); !r.OK() {
		return t.fail(errors.New("date command failed"))
	}
	t.active = true
	t.resetNeeded = true
	return nil
}

func (t *dateLoopTechnique) Rollback() {
	if t.resetNeeded {
		t.enableAutoSync()
		t.resetNeeded = false
	}
	t.active = false
}
