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
	"strings"

	"github.com/go-ini/ini"

	"github.com/maaythm/dctimer/ntp"
)

// timesyncdTechnique is technique 3: rewrite timesyncd.conf and restart
// the platform-native systemd-timesyncd daemon
type timesyncdTechnique struct {
	base
	configFile string
	daemonPath string
}

func newTimesyncd(exec Executor) *timesyncdTechnique {
	return &timesyncdTechnique{
		base: base{
			name:    "systemd-timesyncd",
			ordinal: 3,
			caps: Capabilities{
				NeedsConfigFile:     true,
				NeedsServiceRestart: true,
			},
			exec: exec,
		},
		configFile: "/etc/systemd/timesyncd.conf",
		daemonPath: "/lib/systemd/systemd-timesyncd",
	}
}

func (t *timesyncdTechnique) Check() error {
	if !fileExists(t.daemonPath) {
		return t.fail(errors.New("systemd-timesyncd not found"))
	}
	if !isLinux() {
		return t.fail(errors.New("systemd-timesyncd is only supported on Linux"))
	}
	if !hasSystemd() {
		return t.fail(ErrNoSystemd)
	}
	return nil
}

func (t *timesyncdTechnique) Sync(server string, port int) error {
	if !isRoot() {
		return t.privilegeError()
	}
	t.warnCustomPort(port)
	backupFile(t.configFile)
	if err := t.writeConfig(server); err != nil {
		return t.fail(fmt.Errorf("failed to write timesyncd config: %w", err))
	}
	if r := t.exec.Run("systemctl", "enable", "systemd-timesyncd"); !r.OK() {
		return t.fail(fmt.Errorf("systemctl enable systemd-timesyncd failed: %s", r.Describe()))
	}
	if r := t.exec.Run("systemctl", "restart", "systemd-timesyncd"); !r.OK() {
		return t.fail(fmt.Errorf("systemctl restart systemd-timesyncd failed: %s", r.Describe()))
	}
	if r := t.exec.Run("timedatectl", "set-ntp", "true"); !r.OK() {
		return t.fail(fmt.Errorf("timedatectl set-ntp true failed: %s", r.Describe()))
	}
	t.active = true
	return nil
}

// writeConfig produces the [Time] section pointing at the target, with
// public servers as fallback so the host keeps a working config even if
// the target goes away
func (t *timesyncdTechnique) writeConfig(server string) error {
	if err := os.MkdirAll(filepath.Dir(t.configFile), 0755); err != nil {
		return err
	}
	ini.PrettyFormat = false
	cfg := ini.Empty()
	sec := cfg.Section("Time")
	sec.Key("NTP").SetValue(server)
	sec.Key("FallbackNTP").SetValue(strings.Join(ntp.DefaultServers, " "))
	return cfg.SaveTo(t.configFile)
}

func (t *timesyncdTechnique) Rollback() {
	t.enableAutoSync()
	restoreFile(t.configFile)
	t.active = false
}
