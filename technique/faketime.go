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

// faketimeTechnique is technique 6: process-scoped time override via
// the faketime wrapper. Nothing system-wide changes, so it needs no
// privileges and its rollback has nothing to undo.
type faketimeTechnique struct {
	base
	clock    *vclock.Clock
	override string
}

func newFaketime(exec Executor, clock *vclock.Clock) *faketimeTechnique {
	return &faketimeTechnique{
		base: base{
			name:    "faketime",
			ordinal: 6,
			caps: Capabilities{
				SupportsCustomPort:  true,
				SupportsProcessWrap: true,
			},
			exec: exec,
		},
		clock: clock,
	}
}

func (t *faketimeTechnique) Check() error {
	if _, err := lookPath("faketime"); err != nil {
		return t.fail(errors.New("faketime not found in PATH"))
	}
	return nil
}

func (t *faketimeTechnique) Sync(_ string, _ int) error {
	now, err := t.clock.Now()
	if err != nil {
		return t.fail(err)
	}
	t.override = fmt.Sprintf("@%d", now.Unix())
	t.active = true
	return nil
}

// Wrap prefixes the bounded task with the faketime invocation
func (t *faketimeTechnique) Wrap(argv []string) []string {
	if t.override == "" {
		return argv
	}
	return append([]string{"faketime", t.override}, argv...)
}

func (t *faketimeTechnique) Rollback() {
	t.active = false
}
