package cmd

import (
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/chromeshell/cli/internal/chrome"
	"github.com/chromeshell/cli/internal/engine"
	"github.com/chromeshell/cli/pkg/app"
	"github.com/chromeshell/cli/pkg/extensions"
	"github.com/chromeshell/cli/pkg/resmgr"
	"github.com/chromeshell/cli/pkg/taskq"
)

var runCmd = &cobra.Command{
	Use:   "run [url]",
	Short: "Launch the browser with the shell's switch policy",
	Long: `Launch a local Chromium with the shell's default switches, load the
requested extensions, and keep running until the browser exits or the
shell is interrupted.

Extensions may be bundled names (e.g. set_page_color), unpacked
directories, or .zip archives.`,
	Example: `  # Launch with the bundled set_page_color extension
  chromeshell run --extension set_page_color https://example.com

  # Launch headless with an unpacked extension from disk
  chromeshell run -H --extension ./my-extension

  # Expose DevTools and open it in the system browser
  chromeshell run --remote-debugging-port 9222 --devtools`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringArrayP("extension", "e", nil, "Extension to load (bundled name, directory, or zip; repeatable)")
	runCmd.Flags().BoolP("headless", "H", false, "Launch without a window")
	runCmd.Flags().Bool("off-screen-rendering-enabled", false, "Mark the off-screen rendering switch set")
	runCmd.Flags().Bool("enable-gpu", false, "Keep the GPU on under off-screen rendering")
	runCmd.Flags().String("cache-path", "", "Browser cache directory")
	runCmd.Flags().String("crl-sets-path", "", "CRL set file to use")
	runCmd.Flags().String("user-data-dir", "", "Profile directory (temporary when empty)")
	runCmd.Flags().Int("remote-debugging-port", defaultDebugPort(), "DevTools HTTP port (0 disables)")
	runCmd.Flags().Bool("devtools", false, "Open the DevTools endpoint in the system browser")
	rootCmd.AddCommand(runCmd)
}

func defaultDebugPort() int {
	if v := strings.TrimSpace(os.Getenv("CHROMESHELL_REMOTE_DEBUGGING_PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			return port
		}
	}
	return 0
}

// loadHandler reports extension load outcomes to the terminal.
type loadHandler struct{}

func (loadHandler) OnExtensionLoaded(ext *extensions.Extension) {
	name := ext.Manifest.Name()
	if name == "" {
		name = ext.Path
	}
	pterm.Success.Printfln("Loaded extension %s (%s)", name, ext.ID)
	if popup := ext.PopupURL(); popup != "" {
		pterm.Info.Printfln("  popup: %s", popup)
	}
}

func (loadHandler) OnExtensionLoadFailed(path string, err error) {
	pterm.Error.Printfln("Failed to load extension %s: %v", path, err)
}

func runRun(cmd *cobra.Command, args []string) error {
	extPaths, _ := cmd.Flags().GetStringArray("extension")
	headless, _ := cmd.Flags().GetBool("headless")
	osr, _ := cmd.Flags().GetBool("off-screen-rendering-enabled")
	enableGPU, _ := cmd.Flags().GetBool("enable-gpu")
	cachePath, _ := cmd.Flags().GetString("cache-path")
	crlSetsPath, _ := cmd.Flags().GetString("crl-sets-path")
	userDataDir, _ := cmd.Flags().GetString("user-data-dir")
	debugPort, _ := cmd.Flags().GetInt("remote-debugging-port")
	openDevTools, _ := cmd.Flags().GetBool("devtools")

	exe, err := chrome.FindExecutable()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if v, err := chrome.Version(ctx, exe); err != nil {
		pterm.Warning.Printfln("Could not determine browser version: %v", err)
	} else if err := chrome.CheckSupported(v); err != nil {
		pterm.Warning.Printfln("%v; extension loading may not work", err)
	}

	dispatch := taskq.New(ctx)
	defer dispatch.Shutdown()

	shell := app.New()
	eng, err := engine.New(shell, dispatch, resmgr.New(), engine.Options{
		Executable:          exe,
		UserDataDir:         userDataDir,
		CachePath:           cachePath,
		Headless:            headless,
		OffScreenRendering:  osr,
		EnableGPU:           enableGPU,
		CRLSetsPath:         crlSetsPath,
		RemoteDebuggingPort: debugPort,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	for _, p := range extPaths {
		extensions.Load(ctx, dispatch, eng, p, loadHandler{})
	}
	// Registrations hop across queues; flush them before launching so they
	// ride the command line.
	dispatch.Flush()

	pterm.Info.Printfln("Launching %s", exe)
	if err := eng.Launch(ctx); err != nil {
		return err
	}

	if len(args) > 0 {
		if err := eng.Navigate(args[0]); err != nil {
			pterm.Warning.Printfln("Failed to navigate to %s: %v", args[0], err)
		}
	}

	if openDevTools {
		if url := eng.DevToolsURL(); url != "" {
			if err := browser.OpenURL(url); err != nil {
				pterm.Warning.Printfln("Failed to open DevTools UI: %v", err)
			}
		} else {
			pterm.Warning.Println("--devtools needs --remote-debugging-port")
		}
	}

	pterm.Info.Println("Browser running; press Ctrl-C to stop")
	return eng.Wait(ctx)
}
