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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemExecutorRun(t *testing.T) {
	var e SystemExecutor
	r := e.Run("sh", "-c", "printf hello")
	require.True(t, r.OK())
	require.Equal(t, "hello", r.Stdout)
	require.Equal(t, 0, r.ExitCode)
	require.NoError(t, r.Err)
}

func TestSystemExecutorShellExitCode(t *testing.T) {
	var e SystemExecutor
	r := e.Shell("exit 3")
	require.False(t, r.OK())
	require.Equal(t, 3, r.ExitCode)
	require.NoError(t, r.Err)
}

func TestSystemExecutorStderr(t *testing.T) {
	var e SystemExecutor
	r := e.Shell("printf oops >&2; exit 1")
	require.False(t, r.OK())
	require.Equal(t, "oops", r.Describe())
}

func TestSystemExecutorMissingBinary(t *testing.T) {
	var e SystemExecutor
	r := e.Run("definitely-not-a-binary-dctimer-test")
	require.False(t, r.OK())
	require.Error(t, r.Err)
	require.Equal(t, -1, r.ExitCode)
}

func TestSystemExecutorInteractive(t *testing.T) {
	var e SystemExecutor
	code, err := e.Interactive([]string{"sh", "-c", "exit 5"})
	require.NoError(t, err)
	require.Equal(t, 5, code)

	code, err = e.Interactive([]string{"sh", "-c", "true"})
	require.NoError(t, err)
	require.Equal(t, 0, code)

	_, err = e.Interactive([]string{"definitely-not-a-binary-dctimer-test"})
	require.Error(t, err)
}
