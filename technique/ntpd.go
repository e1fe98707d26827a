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
	"os"
)

// ntpdTechnique is technique 2: point the classic ntpd daemon at the
// target server and restart it
type ntpdTechnique struct {
	base
	configFile string
}

func newNTPD(exec Executor) *ntpdTechnique {
	return &ntpdTechnique{
		base: base{
			name:    "ntpd",
			ordinal: 2,
			caps: Capabilities{
				NeedsConfigFile:     true,
				NeedsServiceRestart: true,
			},
			exec: exec,
		},
		configFile: "/etc/ntp.conf",
	}
}

func (t *ntpdTechnique) Check() error {
	if _, err := lookPath("ntpd"); err != nil {
		return t.fail(errors.New("ntpd not found in PATH"))
	}
	if !isLinux() {
		return t.fail(errors.New("ntpd is only supported on Linux"))
	}
	return nil
}

func (t *ntpdTechnique) Sync(server string, port int) error {
	if !isRoot() {
		return t.privilegeError()
	}
	t.warnCustomPort(port)
	backupFile(t.configFile)
	conf := fmt.Sprintf("server %s iburst\n", server)
	if err := os.WriteFile(t.configFile, []byte(conf), 0644); err != nil {
		return t.fail(fmt.Errorf("failed to write ntpd config: %w", err))
	}
	if r := t.exec.Run("systemctl", "restart", "ntp"); !r.OK() {
		return t.fail(fmt.Errorf("systemctl restart ntp failed: %s", r.Describe()))
	}
	if r := t.exec.Run("systemctl", "enable", "ntp"); !r.OK() {
		return t.fail(fmt.Errorf("systemctl enable ntp failed: %s", r.Describe()))
	}
	t.active = true
	return nil
}

func (t *ntpdTechnique) Rollback() {
	t.enableAutoSync()
	restoreFile(t.configFile)
	t.active = false
}
