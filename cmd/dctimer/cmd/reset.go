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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maaythm/dctimer/technique"
)

func init() {
	RootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all applied time changes (Linux only, requires root)",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		if err := technique.ResetAll(technique.SystemExecutor{}); err != nil {
			log.Error(err)
			os.Exit(1)
		}
		printRestoreNotes()
	},
}

func printRestoreNotes() {
	if quiet {
		return
	}
	fmt.Println("\nAdditional notes for manual restoration:")
	fmt.Println("  - If you used ntpd: consider restoring /etc/ntp.conf from backup.")
	fmt.Println("  - If you used openntpd: consider restoring /etc/openntpd/ntpd.conf from backup.")
	fmt.Println("  - If you used systemd-timesyncd: consider restoring /etc/systemd/timesyncd.conf.")
	fmt.Println("  - For faketime: no reset needed.")
	fmt.Println("  - For dynamic date loop: system time should be reset by universal restore.")
	fmt.Println("  - For ntpdate: system time should be reset by universal restore.")
}
