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
	"path/filepath"
)

// openntpdTechnique is technique 4: the alternate OpenNTPD daemon.
// Shares the ntpd binary name but keeps its config under /etc/openntpd.
type openntpdTechnique struct {
	base
	configFile string
}

func newOpenNTPD(exec Executor) *openntpdTechnique {
	return &openntpdTechnique{
		base: base{
			name:    "openntpd",
			ordinal: 4,
			caps: Capabilities{
				NeedsConfigFile:     true,
				NeedsServiceRestart: true,
			},
			exec: exec,
		},
		configFile: "/etc/openntpd/ntpd.conf",
	}
}

func (t *openntpdTechnique) Check() error {
	if _, err := lookPath("ntpd"); err != nil || !fileExists(filepath.Dir(t.configFile)) {
		return t.fail(errors.New("openntpd not found"))
	}
	if !isLinux() {
		return t.fail(errors.New("openntpd is only supported on Linux"))
	}
	return nil
}

func (t *openntpdTechnique) Sync(server string, port int) error {
	if !isRoot() {
		return t.privilegeError()
	}
	t.warnCustomPort(port)
	backupFile(t.configFile)
	if err := os.MkdirAll(filepath.Dir(t.configFile), 0755); err != nil {
		return t.fail(fmt.Errorf("failed to write openntpd config: %w", err))
	}
	conf := fmt.Sprintf("servers %s\n", server)
	if err := os.WriteFile(t.configFile, []byte(conf), 0644); err != nil {
		return t.fail(fmt.Errorf("failed to write openntpd config: %w", err))
	}
	if r := t.exec.Run("systemctl", "restart", "openntpd"); !r.OK() {
		return t.fail(fmt.Errorf("systemctl restart openntpd failed: %s", r.Describe()))
	}
	if r := t.exec.Run("systemctl", "enable", "openntpd"); !r.OK() {
		return t.fail(fmt.Errorf("systemctl enable openntpd failed: %s", r.Describe()))
	}
	t.active = true
	return nil
}

func (t *openntpdTechnique) Rollback() {
	t.enableAutoSync()
	restoreFile(t.configFile)
	t.active = false
}
