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

package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maaythm/dctimer/technique"
	"github.com/maaythm/dctimer/vclock"
)

// fakeTechnique counts rollbacks and optionally wraps the task
type fakeTechnique struct {
	name       string
	wrapPrefix []string
	active     bool
	rollbacks  int
}

func (f *fakeTechnique) Name() string                            { return f.name }
func (f *fakeTechnique) Ordinal() int                            { return 1 }
func (f *fakeTechnique) Capabilities() technique.Capabilities    { return technique.Capabilities{} }
func (f *fakeTechnique) Check() error                            { return nil }
func (f *fakeTechnique) Sync(_ string, _ int) error              { f.active = true; return nil }
func (f *fakeTechnique) Active() bool                            { return f.active }
func (f *fakeTechnique) LastError() string                       { return "" }
func (f *fakeTechnique) Rollback()                               { f.rollbacks++; f.active = false }
func (f *fakeTechnique) Wrap(argv []string) []string {
	return append(append([]string{}, f.wrapPrefix...), argv...)
}

// fakeExecutor records the interactive argv and replays a scripted result
type fakeExecutor struct {
	argv [][]string
	code int
	err  error
}

func (f *fakeExecutor) Run(name string, args ...string) *technique.Result {
	return &technique.Result{}
}

func (f *fakeExecutor) Shell(_ string) *technique.Result {
	return &technique.Result{}
}

func (f *fakeExecutor) Interactive(argv []string) (int, error) {
	f.argv = append(f.argv, argv)
	return f.code, f.err
}

func TestRunCommandSuccess(t *testing.T) {
	tech := &fakeTechnique{name: "fake"}
	exec := &fakeExecutor{}
	s := New(tech, exec)

	require.Equal(t, 0, s.RunCommand("id"))
	require.Equal(t, 1, tech.rollbacks)
	require.Equal(t, [][]string{{"/bin/sh", "-c", "id"}}, exec.argv)
}

func TestRunCommandNonZeroExit(t *testing.T) {
	tech := &fakeTechnique{name: "fake"}
	exec := &fakeExecutor{code: 3}
	s := New(tech, exec)

	require.Equal(t, 3, s.RunCommand("false"))
	// rollback happens even when the task fails
	require.Equal(t, 1, tech.rollbacks)
}

func TestRunCommandDispatchFailure(t *testing.T) {
	tech := &fakeTechnique{name: "fake"}
	exec := &fakeExecutor{code: 1, err: errors.New("exec format error")}
	s := New(tech, exec)

	require.Equal(t, 1, s.RunCommand("whatever"))
	require.Equal(t, 1, tech.rollbacks)
}

func TestRunShell(t *testing.T) {
	tech := &fakeTechnique{name: "fake"}
	exec := &fakeExecutor{}
	s := New(tech, exec)

	require.Equal(t, 0, s.RunShell("/bin/bash"))
	require.Equal(t, 1, tech.rollbacks)
	require.Equal(t, [][]string{{"/bin/bash"}}, exec.argv)
}

func TestCloseIsIdempotent(t *testing.T) {
	tech := &fakeTechnique{name: "fake"}
	s := New(tech, &fakeExecutor{})

	s.Close()
	s.Close()
	require.Equal(t, 1, tech.rollbacks)
}

func TestRollbackOncePerTask(t *testing.T) {
	tech := &fakeTechnique{name: "fake"}
	exec := &fakeExecutor{}
	s := New(tech, exec)

	require.Equal(t, 0, s.RunCommand("id"))
	// explicit Close after the task must not roll back again
	s.Close()
	require.Equal(t, 1, tech.rollbacks)
}

func TestWrappedCommand(t *testing.T) {
	tech := &fakeTechnique{name: "wrapper", wrapPrefix: []string{"faketime", "@1700000000"}}
	exec := &fakeExecutor{}
	s := New(tech, exec)

	require.Equal(t, 0, s.RunCommand("id"))
	require.Equal(t, [][]string{{"faketime", "@1700000000", "/bin/sh", "-c", "id"}}, exec.argv)
}

// end to end with the real faketime technique: forced process-scoped
// override wraps the task with the stored epoch string and rollback
// still runs (a no-op for this variant)
func TestFaketimeSessionScenario(t *testing.T) {
	reference := time.Unix(1700000000, 0)
	clock := vclock.New()
	clock.Seed(reference)

	exec := &fakeExecutor{}
	runner := technique.NewRunner(exec, clock)
	tech := runner.Techniques()[5]
	require.Equal(t, "faketime", tech.Name())
	require.NoError(t, tech.Sync("10.0.0.5", 123))
	require.True(t, tech.Active())

	s := New(tech, exec)
	require.Equal(t, 0, s.RunCommand("id"))

	require.Len(t, exec.argv, 1)
	argv := exec.argv[0]
	require.Equal(t, "faketime", argv[0])
	require.True(t, strings.HasPrefix(argv[1], "@17"))
	require.Equal(t, []string{"/bin/sh", "-c", "id"}, argv[2:])
	require.False(t, tech.Active())
}
