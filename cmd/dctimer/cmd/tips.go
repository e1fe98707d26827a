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
	"runtime"

	"github.com/fatih/color"
	"github.com/shirou/gopsutil/host"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maaythm/dctimer/ntp"
)

func init() {
	RootCmd.AddCommand(tipsCmd)
}

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Query the server and print manual time sync guidance for this platform",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		if err := validatePort(port); err != nil {
			log.Error(err)
			os.Exit(1)
		}
		target, err := targetServer()
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
		resp, err := ntp.Query(target, port, queryTimeout)
		if err != nil {
			log.Errorf("failed to fetch NTP time: %v", err)
			os.Exit(1)
		}
		printTips(target, port, resp)
	},
}

// printTips reports query results and per-platform manual sync steps
// for systems where the technique chain cannot run
func printTips(server string, port int, resp *ntp.Response) {
	if quiet {
		return
	}
	fmt.Printf("\n%s\n", color.YellowString("=== Cross-Platform Time Sync Information ==="))
	if info, err := host.Info(); err == nil {
		fmt.Printf("Host: %s %s (%s/%s)\n", info.Platform, info.PlatformVersion, info.OS, info.KernelArch)
	}
	fmt.Printf("Target Server: %s:%d\n", server, port)
	fmt.Printf("Server Time: %s\n", resp.ServerTime)
	fmt.Printf("Local Time: %s\n", resp.LocalTime)
	fmt.Printf("Offset: %.3f seconds\n", resp.Offset.Seconds())

	switch runtime.GOOS {
	case "windows":
		fmt.Printf("\n%s\n", color.CyanString("Windows Manual Sync:"))
		fmt.Println("1. Run as Administrator:")
		fmt.Printf("   w32tm /config /manualpeerlist:%q /syncfromflags:manual\n", server)
		fmt.Println("   w32tm /resync")
		fmt.Println("2. Or use GUI: Date & Time Settings > Additional date, time, & regional settings")
	case "darwin":
		fmt.Printf("\n%s\n", color.CyanString("macOS Manual Sync:"))
		fmt.Println("1. System Preferences > Date & Time")
		fmt.Println("2. Uncheck 'Set date and time automatically'")
		fmt.Printf("3. Manually set to: %s\n", resp.ServerTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("4. Or use terminal: sudo sntp -sS %s\n", server)
	}
	fmt.Printf("\n%s manual time changes may be logged by the system\n", color.RedString("OPSEC Note:"))
}
