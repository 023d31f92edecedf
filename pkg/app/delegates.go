package app

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/chromeshell/cli/pkg/cmdline"
)

// CreateDelegates builds the static delegate set. Called once from New;
// the returned set is never mutated afterward.
func CreateDelegates() []any {
	return []any{
		&clientDelegate{},
	}
}

// clientDelegate carries the shell's own lifecycle behavior: crash-report
// annotations and CRL set loading.
type clientDelegate struct{}

func (d *clientDelegate) OnContextInitialized(b *Browser) {
	cl := b.CommandLine()
	if cl == nil {
		return
	}

	if cl.HasSwitch(cmdline.SwitchEnableCrashReporter) {
		b.SetCrashKey("client", "chromeshell")
		b.SetCrashKey("switches", "browser-defaults")
	}

	if crlPath := cl.SwitchValue(cmdline.SwitchCRLSetsPath); crlPath != "" {
		if _, err := os.Stat(crlPath); err != nil {
			pterm.Warning.Printfln("CRL set file not readable, continuing without it: %s", crlPath)
			return
		}
		pterm.Info.Printfln("Using CRL set from %s", crlPath)
	}
}
