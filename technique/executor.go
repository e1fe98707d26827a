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
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Result is the outcome of one external command invocation
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is set only when the command could not be started at all
	Err error
}

// OK reports whether the command started and exited zero
func (r *Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Describe returns the most useful short explanation of a failure
func (r *Result) Describe() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return "unknown error"
}

// Executor runs external tools. The argv form bypasses the shell, the
// shell form is for user-supplied command strings, and the interactive
// form attaches the caller's stdio for bounded tasks and shells.
type Executor interface {
	Run(name string, args ...string) *Result
	Shell(command string) *Result
	Interactive(argv []string) (int, error)
}

// SystemExecutor runs commands on the local host
type SystemExecutor struct{}

// Run executes argv with captured output, no shell interpretation
func (SystemExecutor) Run(name string, args ...string) *Result {
	log.Debugf("running command: %s %s", name, strings.Join(args, " "))
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.Err = err
		res.ExitCode = -1
	}
	if s := strings.TrimSpace(res.Stdout); s != "" {
		log.Debugf("stdout: %s", s)
	}
	if s := strings.TrimSpace(res.Stderr); s != "" {
		log.Debugf("stderr: %s", s)
	}
	return res
}

// Shell executes a user-supplied command string with shell semantics
func (e SystemExecutor) Shell(command string) *Result {
	return e.Run("/bin/sh", "-c", command)
}

// Interactive executes argv with the current process stdio attached and
// returns the task's exit code. The error is set only when dispatch
// itself failed.
func (SystemExecutor) Interactive(argv []string) (int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 1, err
}
