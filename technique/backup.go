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
	"time"

	log "github.com/sirupsen/logrus"
)

// BackupSuffix is appended to a config path to form its backup path
const BackupSuffix = ".dctimer.bak"

// backupFile saves a copy of path before a technique overwrites it.
// An existing backup is never overwritten: it holds the pristine
// content from before the first write and a second backup would capture
// our own config instead. Returns the backup path, or "" when nothing
// was backed up.
func backupFile(path string) string {
	backup := path + BackupSuffix
	if fileExists(backup) {
		log.Warningf("backup already exists, keeping it: %s", backup)
		return backup
	}
	if !fileExists(path) {
		log.Warningf("config file %s does not exist, skipping backup", path)
		return ""
	}
	if err := copyFile(path, backup); err != nil {
		log.Warningf("failed to back up %s: %v", path, err)
		return ""
	}
	log.Debugf("backed up %s to %s", path, backup)
	return backup
}

// restoreFile puts the backed up content back and removes the backup
func restoreFile(path string) bool {
	backup := path + BackupSuffix
	if !fileExists(backup) {
		log.Warningf("no backup found for %s, restore it manually if needed", path)
		return false
	}
	if err := copyFile(backup, path); err != nil {
		log.Warningf("failed to restore %s: %v", path, err)
		return false
	}
	if err := os.Remove(backup); err != nil {
		log.Warningf("failed to remove backup %s: %v", backup, err)
		return false
	}
	log.Debugf("restored %s from backup", path)
	return true
}

// copyFile copies content and preserves mode and mtime
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, info.Mode()); err != nil {
		return err
	}
	return os.Chtimes(dst, time.Now(), info.ModTime())
}
