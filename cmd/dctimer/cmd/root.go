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

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maaythm/dctimer/ntp"
)

// RootCmd is a main entry point. It's exported so dctimer could be easily extended without touching core functionality.
var RootCmd = &cobra.Command{
	Use:   "dctimer",
	Short: "Synchronize system or process time with a Domain Controller or NTP server",
}

var server string
var port int
var forced int
var verbose bool
var quiet bool
var colorless bool

func init() {
	RootCmd.PersistentFlags().StringVarP(&server, "ip", "i", "", "DC/NTP server address (or use the IP environment variable)")
	RootCmd.PersistentFlags().IntVarP(&port, "port", "p", ntp.DefaultPort, "UDP port for NTP queries")
	RootCmd.PersistentFlags().IntVarP(&forced, "technique", "t", 0, "force a specific time sync technique (1-7)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet mode, only print the wrapped command output")
	RootCmd.PersistentFlags().BoolVar(&colorless, "colorless", false, "disable colored output (for piping)")
}

// ConfigureVerbosity configures log verbosity based on parsed flags. Needs to be called by any subcommand.
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	if quiet {
		log.SetLevel(log.PanicLevel)
	}
	if colorless {
		color.NoColor = true
	}
}

// Execute is the main entry point for CLI interface
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// targetServer resolves the server from the flag or the IP env var
func targetServer() (string, error) {
	if server != "" {
		return server, nil
	}
	if env := os.Getenv("IP"); env != "" {
		return env, nil
	}
	return "", errors.New("no DC/NTP server specified, use -i or set the IP environment variable")
}

func validatePort(p int) error {
	if p < 1 || p > 65535 {
		return fmt.Errorf("invalid port %d, must be between 1 and 65535", p)
	}
	return nil
}
