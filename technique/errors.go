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
	"errors"
	"fmt"
)

// noSystemdSignature is what systemd-dependent tools print to stderr on
// hosts that were not booted with systemd (typical for containers)
const noSystemdSignature = "System has not been booted with systemd"

// ErrUnsupported is returned when the reserved ordinal 7 (dynamic
// interception of time-reading calls) is requested
var ErrUnsupported = errors.New("technique 7 (dynamic interception) is not supported yet")

// ErrNoSystemd marks failures caused by running in a container or on a
// minimal OS without an init manager
var ErrNoSystemd = errors.New("systemd is not available (container or minimal OS), technique not supported")

// Attempt records why one candidate technique did not become active
type Attempt struct {
	Ordinal int
	Name    string
	Reason  string
}

// ExhaustedError is returned when every candidate technique failed.
// Attempts preserves candidate order.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no technique succeeded, %d candidate(s) failed", len(e.Attempts))
}
