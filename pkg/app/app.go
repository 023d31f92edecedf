// Package app is the application-side shim between the browser engine and
// the shell's features. Engine lifecycle notifications fan out to a static
// delegate set populated once at construction; each delegate implements
// only the hooks it cares about.
package app

import (
	"sync"
	"time"

	"github.com/chromeshell/cli/pkg/cmdline"
)

// CommandLineDelegate is notified before browser-process command-line
// processing, after the shell's default switches have been applied.
type CommandLineDelegate interface {
	OnBeforeCommandLineProcessing(b *Browser, cl *cmdline.CommandLine)
}

// ContextDelegate is notified once the engine context is initialized.
type ContextDelegate interface {
	OnContextInitialized(b *Browser)
}

// ChildProcessDelegate is notified before the engine launches a child
// process, with that process's command line.
type ChildProcessDelegate interface {
	OnBeforeChildProcessLaunch(b *Browser, cl *cmdline.CommandLine)
}

// RenderProcessDelegate is notified when a render process is ready, with
// the extra info the engine hands over.
type RenderProcessDelegate interface {
	OnRenderProcessReady(b *Browser, extraInfo map[string]any)
}

// CookieManager is the engine's cookie subsystem, as much of it as the
// shell touches.
type CookieManager interface {
	SetSupportedSchemes(schemes []string)
}

// MessagePump receives schedule-work requests when an external message
// pump drives the engine.
type MessagePump interface {
	ScheduleWork(delay time.Duration)
}

// Browser receives engine lifecycle notifications for the browser process
// and broadcasts them to the registered delegates in registration order.
// Delegates are fixed at construction and live for the process lifetime.
type Browser struct {
	delegates []any

	cookieableSchemes []string
	cookieManager     CookieManager
	pump              MessagePump

	mu          sync.Mutex
	commandLine *cmdline.CommandLine
	crashKeys   map[string]string
}

// New constructs the Browser with the build-time delegate set.
func New() *Browser {
	return &Browser{
		delegates:         CreateDelegates(),
		cookieableSchemes: []string{"http", "https"},
		crashKeys:         make(map[string]string),
	}
}

// SetCookieManager installs the engine cookie manager consulted on context
// initialization.
func (b *Browser) SetCookieManager(cm CookieManager) { b.cookieManager = cm }

// SetMessagePump installs the external message pump, if any.
func (b *Browser) SetMessagePump(p MessagePump) { b.pump = p }

// CommandLine returns the browser-process command line, nil before
// OnBeforeCommandLineProcessing has run.
func (b *Browser) CommandLine() *cmdline.CommandLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commandLine
}

// SetCrashKey records a crash-report annotation.
func (b *Browser) SetCrashKey(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.crashKeys[key] = value
}

// CrashKey returns a previously recorded crash-report annotation.
func (b *Browser) CrashKey(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.crashKeys[key]
}

// OnBeforeCommandLineProcessing applies the shell's switch policy and
// notifies delegates. Only the browser process (empty process type) is
// touched; child-process command lines pass through untouched here.
func (b *Browser) OnBeforeCommandLineProcessing(processType string, cl *cmdline.CommandLine) {
	if processType != "" {
		return
	}
	cmdline.ApplyBrowserDefaults(cl)
	b.mu.Lock()
	b.commandLine = cl
	b.mu.Unlock()

	for _, d := range b.delegates {
		if h, ok := d.(CommandLineDelegate); ok {
			h.OnBeforeCommandLineProcessing(b, cl)
		}
	}
}

// OnContextInitialized registers cookieable schemes with the engine cookie
// manager and notifies delegates.
func (b *Browser) OnContextInitialized() {
	if b.cookieManager != nil {
		b.cookieManager.SetSupportedSchemes(b.cookieableSchemes)
	}
	for _, d := range b.delegates {
		if h, ok := d.(ContextDelegate); ok {
			h.OnContextInitialized(b)
		}
	}
}

// OnBeforeChildProcessLaunch notifies delegates with the child process
// command line.
func (b *Browser) OnBeforeChildProcessLaunch(cl *cmdline.CommandLine) {
	for _, d := range b.delegates {
		if h, ok := d.(ChildProcessDelegate); ok {
			h.OnBeforeChildProcessLaunch(b, cl)
		}
	}
}

// OnRenderProcessReady notifies delegates that a render process is up.
func (b *Browser) OnRenderProcessReady(extraInfo map[string]any) {
	for _, d := range b.delegates {
		if h, ok := d.(RenderProcessDelegate); ok {
			h.OnRenderProcessReady(b, extraInfo)
		}
	}
}

// OnScheduleMessagePumpWork forwards to the external message pump when one
// is installed; otherwise the notification is ignored.
func (b *Browser) OnScheduleMessagePumpWork(delay time.Duration) {
	if b.pump != nil {
		b.pump.ScheduleWork(delay)
	}
}
