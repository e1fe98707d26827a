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

/*
Package technique implements the ordered set of time synchronization
strategies and the fallback search over them. Each technique knows how to
check its own prerequisites, apply itself against a target server and
undo its system-wide effects.
*/
package technique

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/coreos/go-systemd/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/maaythm/dctimer/ntp"
)

// test hooks, replaced by unit tests to simulate hosts we don't run on
var (
	geteuid    = unix.Geteuid
	lookPath   = exec.LookPath
	goos       = runtime.GOOS
	hasSystemd = util.IsRunningSystemd
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}
)

func isRoot() bool {
	return geteuid() == 0
}

func isLinux() bool {
	return goos == "linux"
}

// Capabilities describe what a technique needs and what it can do
type Capabilities struct {
	// SupportsCustomPort is false for tools hardwired to port 123
	SupportsCustomPort bool
	// NeedsConfigFile is true when Sync overwrites a config file
	NeedsConfigFile bool
	// NeedsServiceRestart is true when Sync drives a service manager
	NeedsServiceRestart bool
	// SupportsProcessWrap is true when time is altered per-process
	// rather than system-wide
	SupportsProcessWrap bool
}

// Technique is a single strategy for making the system (or a process)
// observe the remote server's time
type Technique interface {
	// Name is a short human-readable identifier
	Name() string
	// Ordinal is the technique's position in the fallback chain, 1-based
	Ordinal() int
	// Capabilities reports static properties of the technique
	Capabilities() Capabilities
	// Check verifies prerequisites (OS family, tool presence,
	// privileges) without side effects
	Check() error
	// Sync applies the technique against the server. Called at most
	// once per run, never retried internally.
	Sync(server string, port int) error
	// Rollback undoes system-wide effects. Best effort, never fails
	// upward; failures are logged.
	Rollback()
	// Wrap prefixes argv with the process wrapper if the technique is
	// process-scoped; identity otherwise
	Wrap(argv []string) []string
	// Active reports whether the technique is currently applied
	Active() bool
	// LastError is the reason for the most recent Check/Sync failure
	LastError() string
}

// base carries the state shared by all technique variants
type base struct {
	name    string
	ordinal int
	caps    Capabilities
	exec    Executor
	active  bool
	lastErr string
}

func (b *base) Name() string               { return b.name }
func (b *base) Ordinal() int               { return b.ordinal }
func (b *base) Capabilities() Capabilities { return b.caps }
func (b *base) Active() bool               { return b.active }
func (b *base) LastError() string          { return b.lastErr }

// Wrap is identity for everything except process-scoped techniques
func (b *base) Wrap(argv []string) []string { return argv }

// fail records the error for reporting and passes it through
func (b *base) fail(err error) error {
	b.lastErr = err.Error()
	return err
}

func (b *base) privilegeError() error {
	return b.fail(fmt.Errorf("%s requires elevated privileges", b.name))
}

// warnCustomPort keeps the legacy soft-failure semantics: a non-default
// port is recorded and warned about, but synchronization proceeds
func (b *base) warnCustomPort(port int) {
	if b.caps.SupportsCustomPort || port == ntp.DefaultPort {
		return
	}
	b.lastErr = fmt.Sprintf("%s does not support custom ports", b.name)
	log.Warningf("%s does not support custom ports, proceeding against port %d", b.name, ntp.DefaultPort)
}

// enableAutoSync hands the clock back to the OS. Shared rollback step.
func (b *base) enableAutoSync() {
	if r := b.exec.Run("timedatectl", "set-ntp", "true"); !r.OK() {
		log.Warningf("could not re-enable system time sync: %s", r.Describe())
	}
}
