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
	"strings"

	log "github.com/sirupsen/logrus"
)

// ntpdateTechnique is technique 1: one-shot system-wide sync via the
// ntpdate tool. No persistent config, so the OS may step the clock back
// at any point unless auto-sync stays disabled.
type ntpdateTechnique struct {
	base
}

func newNTPDate(exec Executor) *ntpdateTechnique {
	return &ntpdateTechnique{base{
		name:    "ntpdate",
		ordinal: 1,
		exec:    exec,
	}}
}

func (t *ntpdateTechnique) Check() error {
	if _, err := lookPath("ntpdate"); err != nil {
		return t.fail(errors.New("ntpdate not found in PATH"))
	}
	if !isLinux() {
		return t.fail(errors.New("ntpdate is only supported on Linux"))
	}
	return nil
}

func (t *ntpdateTechnique) Sync(server string, port int) error {
	// best effort: without this the OS can re-sync the clock right back
	if r := t.exec.Run("timedatectl", "set-ntp", "off"); !r.OK() {
		log.Warningf("could not disable system time sync: %s", r.Describe())
		log.Warning("system time may be stepped back at any time by background services")
	}
	if !isRoot() {
		return t.privilegeError()
	}
	t.warnCustomPort(port)
	r := t.exec.Run("ntpdate", "-u", server)
	if !r.OK() {
		if strings.Contains(r.Stderr, noSystemdSignature) {
			return t.fail(ErrNoSystemd)
		}
		return t.fail(errors.New("ntpdate command failed"))
	}
	t.active = true
	return nil
}

func (t *ntpdateTechnique) Rollback() {
	t.enableAutoSync()
	t.active = false
}
