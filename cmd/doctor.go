package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/chromeshell/cli/internal/chrome"
	"github.com/chromeshell/cli/pkg/resources"
	"github.com/chromeshell/cli/pkg/table"
	"github.com/chromeshell/cli/pkg/util"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local browser installation",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	rows := pterm.TableData{{"Check", "Result"}}
	healthy := true

	exe, err := chrome.FindExecutable()
	if err != nil {
		rows = append(rows, []string{"Executable", err.Error()})
		healthy = false
	} else {
		rows = append(rows, []string{"Executable", exe})

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		v, err := chrome.Version(ctx, exe)
		switch {
		case err != nil:
			rows = append(rows, []string{"Version", "unknown: " + err.Error()})
			healthy = false
		case chrome.CheckSupported(v) != nil:
			rows = append(rows, []string{"Version", v.String() + " (older than " + chrome.MinSupported.String() + ")"})
			healthy = false
		default:
			rows = append(rows, []string{"Version", v.String()})
		}
	}

	names, err := resources.ExtensionNames()
	if err != nil {
		rows = append(rows, []string{"Bundled extensions", err.Error()})
		healthy = false
	} else {
		rows = append(rows, []string{"Bundled extensions", strings.Join(names, ", ")})
	}
	rows = append(rows, []string{"Resource dir override", util.OrDash(resources.Dir())})

	if dir, err := chrome.UserDataDir(); err == nil {
		rows = append(rows, []string{"Default user data dir", dir})
	}

	table.PrintTableNoPad(rows, true)
	if healthy {
		pterm.Success.Println("Everything looks good")
	} else {
		pterm.Warning.Println("Some checks failed; 'chromeshell run' may not work")
	}
	return nil
}
