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

	log "github.com/sirupsen/logrus"

	"github.com/maaythm/dctimer/ntp"
)

// ResetAll unconditionally hands the clock back to the OS and performs
// one best-effort sync against a public server. Underlying command
// failures are only warned about; config backups left by persistent
// techniques still need manual restoration.
func ResetAll(exec Executor) error {
	if !isLinux() {
		return errors.New("reset is only available on Linux")
	}
	if !isRoot() {
		return errors.New("reset requires elevated privileges")
	}
	log.Info("re-enabling system time synchronization (timedatectl set-ntp true)")
	if r := exec.Run("timedatectl", "set-ntp", "true"); !r.OK() {
		log.Warningf("timedatectl set-ntp true failed: %s", r.Describe())
	}
	log.Infof("synchronizing with public NTP server (ntpdate %s)", ntp.DefaultServers[0])
	if r := exec.Run("ntpdate", ntp.DefaultServers[0]); !r.OK() {
		log.Warningf("ntpdate failed: %s", r.Describe())
	}
	log.Info("universal time sync restored")
	return nil
}
