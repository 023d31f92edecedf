// Package cmdline models the browser process command line: an ordered set of
// --name[=value] switches plus positional arguments.
package cmdline

import (
	"fmt"

	"github.com/samber/lo"
)

type switchEntry struct {
	name  string
	value string
}

// CommandLine is an ordered switch collection for a browser process launch.
// Switches keep first-append order when rendered; re-appending an existing
// switch updates its value in place.
type CommandLine struct {
	program  string
	switches []switchEntry
	index    map[string]int
	args     []string
}

// New returns a CommandLine for the given program path.
func New(program string) *CommandLine {
	return &CommandLine{
		program: program,
		index:   make(map[string]int),
	}
}

// Program returns the executable path the command line was created with.
func (cl *CommandLine) Program() string { return cl.program }

// AppendSwitch appends a value-less switch.
func (cl *CommandLine) AppendSwitch(name string) {
	cl.AppendSwitchWithValue(name, "")
}

// AppendSwitchWithValue appends a switch with a value. Appending a switch
// that is already present replaces its value but keeps its position.
func (cl *CommandLine) AppendSwitchWithValue(name, value string) {
	if i, ok := cl.index[name]; ok {
		cl.switches[i].value = value
		return
	}
	cl.index[name] = len(cl.switches)
	cl.switches = append(cl.switches, switchEntry{name: name, value: value})
}

// HasSwitch reports whether the switch is present.
func (cl *CommandLine) HasSwitch(name string) bool {
	_, ok := cl.index[name]
	return ok
}

// SwitchValue returns the value of the switch, or "" when absent or value-less.
func (cl *CommandLine) SwitchValue(name string) string {
	if i, ok := cl.index[name]; ok {
		return cl.switches[i].value
	}
	return ""
}

// AppendArg appends a positional argument (rendered after all switches).
func (cl *CommandLine) AppendArg(arg string) {
	cl.args = append(cl.args, arg)
}

// Args returns the positional arguments.
func (cl *CommandLine) Args() []string {
	return append([]string(nil), cl.args...)
}

// Switches returns the switch names in append order.
func (cl *CommandLine) Switches() []string {
	return lo.Map(cl.switches, func(s switchEntry, _ int) string { return s.name })
}

// Argv renders the command line as argument strings, switches first in
// append order, then positional arguments. The program is not included.
func (cl *CommandLine) Argv() []string {
	argv := lo.Map(cl.switches, func(s switchEntry, _ int) string {
		if s.value == "" {
			return "--" + s.name
		}
		return fmt.Sprintf("--%s=%s", s.name, s.value)
	})
	return append(argv, cl.args...)
}
