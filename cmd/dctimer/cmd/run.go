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
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maaythm/dctimer/ntp"
	"github.com/maaythm/dctimer/session"
	"github.com/maaythm/dctimer/technique"
	"github.com/maaythm/dctimer/vclock"
)

const queryTimeout = 5 * time.Second

func init() {
	RootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [command...]",
	Short: "Run a command under time synchronized with the target server",
	Long: `'run' fetches the current time from the target DC/NTP server, applies the
first working synchronization technique, runs the given command, and rolls the
time change back afterwards. The command's exit code is propagated.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		sess, code := prepare()
		if sess == nil {
			os.Exit(code)
		}
		os.Exit(sess.RunCommand(strings.Join(args, " ")))
	},
}

// prepare validates input, seeds the virtual clock from one NTP query
// and walks the technique chain. A nil session means the run is already
// decided, use the returned exit code.
func prepare() (*session.Session, int) {
	if err := validatePort(port); err != nil {
		log.Error(err)
		return nil, 1
	}
	target, err := targetServer()
	if err != nil {
		log.Error(err)
		return nil, 1
	}

	resp, err := ntp.Query(target, port, queryTimeout)
	if err != nil {
		log.Errorf("failed to fetch initial NTP time: %v", err)
		return nil, 1
	}
	clock := vclock.New()
	clock.Seed(resp.ServerTime)

	if runtime.GOOS != "linux" {
		log.Warning("full automation is only available on Linux")
		printTips(target, port, resp)
		return nil, 0
	}

	exec := technique.SystemExecutor{}
	runner := technique.NewRunner(exec, clock)
	tech, err := runner.Run(target, port, forced)
	if err != nil {
		var exhausted *technique.ExhaustedError
		if errors.As(err, &exhausted) {
			printFailureMatrix(exhausted.Attempts)
		}
		log.Errorf("time synchronization failed: %v", err)
		return nil, 1
	}
	if !quiet {
		fmt.Printf("%s Used technique %d: %s\n", color.GreenString("[ OK ]"), tech.Ordinal(), tech.Name())
	}
	return session.New(tech, exec), 0
}

// printFailureMatrix reports why every candidate failed, in order
func printFailureMatrix(attempts []technique.Attempt) {
	if quiet {
		return
	}
	fmt.Println("\nTechnique failure summary:")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"No.", "Technique", "Reason"})
	for _, a := range attempts {
		table.Append([]string{strconv.Itoa(a.Ordinal), a.Name, a.Reason})
	}
	table.Render()
}
