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

package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(shellCmd)
}

var shellCmd = &cobra.Command{
	Use:   "shell [name]",
	Short: "Open an interactive shell with time synchronized to the target server",
	Long: `'shell' opens an interactive shell (bash, zsh, sh, or $SHELL) under the
synchronized time and rolls the change back when the shell exits.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		if runtime.GOOS != "linux" {
			log.Error("shell mode is only supported on Linux")
			os.Exit(1)
		}
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		path, err := resolveShell(name)
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
		sess, code := prepare()
		if sess == nil {
			os.Exit(code)
		}
		log.Debugf("launching shell: %s", path)
		os.Exit(sess.RunShell(path))
	},
}

// resolveShell turns a shell name into an executable path, falling back
// to $SHELL and then /bin/bash
func resolveShell(name string) (string, error) {
	if name == "" {
		if env := os.Getenv("SHELL"); env != "" {
			return env, nil
		}
		name = "/bin/bash"
	}
	if !strings.Contains(name, "/") {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	if _, err := os.Stat(name); err != nil {
		return "", fmt.Errorf("could not find shell %q", name)
	}
	return name, nil
}
