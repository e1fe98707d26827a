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

// Package session runs one bounded task (a command or an interactive
// shell) under the technique selected by the runner and guarantees the
// technique is rolled back on every exit path, interrupts included.
package session

import (
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/maaythm/dctimer/technique"
)

// Session owns the active technique's lifecycle across a bounded task
type Session struct {
	tech technique.Technique
	exec technique.Executor
	done sync.Once
}

// New wraps the active technique
func New(tech technique.Technique, exec technique.Executor) *Session {
	return &Session{tech: tech, exec: exec}
}

// Close rolls back the active technique. Safe to call more than once,
// only the first call does the work.
func (s *Session) Close() {
	s.done.Do(func() {
		s.tech.Rollback()
	})
}

// RunCommand executes a user-supplied command string with shell
// semantics under the synchronized time and returns its exit code
func (s *Session) RunCommand(command string) int {
	defer s.Close()
	return s.run(s.tech.Wrap([]string{"/bin/sh", "-c", command}))
}

// RunShell launches an interactive shell under the synchronized time
func (s *Session) RunShell(path string) int {
	defer s.Close()
	return s.run(s.tech.Wrap([]string{path}))
}

func (s *Session) run(argv []string) int {
	stop := s.watchSignals()
	defer stop()
	log.Debugf("running command: %s", strings.Join(argv, " "))
	code, err := s.exec.Interactive(argv)
	if err != nil {
		log.Errorf("failed to execute command: %v", err)
		return 1
	}
	if code != 0 {
		log.Errorf("command failed with exit code %d", code)
	}
	return code
}

// watchSignals makes sure an operator interrupt still rolls the
// technique back before the process exits. The rollback runs
// synchronously in the handler; Close is idempotent so the racing
// deferred path is harmless.
func (s *Session) watchSignals() func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig, ok := <-sigs
		if !ok {
			return
		}
		log.Warningf("interrupted by %v, rolling back", sig)
		s.Close()
		os.Exit(130)
	}()
	return func() {
		signal.Stop(sigs)
		close(sigs)
	}
}
