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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackupRestoreRoundTrip(t *testing.T) {
	setHost(t, linuxRoot())
	path := filepath.Join(t.TempDir(), "some.conf")
	require.NoError(t, os.WriteFile(path, []byte("original content\n"), 0600))

	backup := backupFile(path)
	require.Equal(t, path+BackupSuffix, backup)
	require.FileExists(t, backup)

	info, err := os.Stat(backup)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode())

	require.NoError(t, os.WriteFile(path, []byte("clobbered\n"), 0644))
	require.True(t, restoreFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "original content\n", string(data))
	require.NoFileExists(t, backup)
}

func TestBackupTwiceKeepsOriginal(t *testing.T) {
	setHost(t, linuxRoot())
	path := filepath.Join(t.TempDir(), "some.conf")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0644))

	require.Equal(t, path+BackupSuffix, backupFile(path))
	require.NoError(t, os.WriteFile(path, []byte("second\n"), 0644))
	// second request is a no-op, the original backup survives
	require.Equal(t, path+BackupSuffix, backupFile(path))

	data, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	require.Equal(t, "first\n", string(data))
}

func TestBackupMissingSource(t *testing.T) {
	setHost(t, linuxRoot())
	path := filepath.Join(t.TempDir(), "absent.conf")
	require.Equal(t, "", backupFile(path))
	require.NoFileExists(t, path+BackupSuffix)
}

func TestRestoreWithoutBackup(t *testing.T) {
	setHost(t, linuxRoot())
	path := filepath.Join(t.TempDir(), "some.conf")
	require.NoError(t, os.WriteFile(path, []byte("content\n"), 0644))

	require.False(t, restoreFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "content\n", string(data))
}
