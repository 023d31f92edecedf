// Package engine drives a local Chromium over the DevTools protocol. It is
// the shell's boundary with the browser engine proper: process launch,
// extension registration, cookies, and target lifecycle notifications all
// cross here.
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	cdpext "github.com/chromedp/cdproto/extensions"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/pterm/pterm"
	"github.com/samber/lo"

	"github.com/chromeshell/cli/pkg/app"
	"github.com/chromeshell/cli/pkg/cmdline"
	"github.com/chromeshell/cli/pkg/extensions"
	"github.com/chromeshell/cli/pkg/resmgr"
	"github.com/chromeshell/cli/pkg/taskq"
)

// Options configures a launch.
type Options struct {
	// Executable is the browser binary; discovered when empty.
	Executable string
	// UserDataDir is the profile directory; a temporary one when empty.
	UserDataDir string
	// CachePath sets the cache-path switch when non-empty.
	CachePath string
	// Headless launches without a window.
	Headless bool
	// OffScreenRendering marks the off-screen-rendering switch set.
	OffScreenRendering bool
	// EnableGPU keeps the GPU on under off-screen rendering.
	EnableGPU bool
	// CRLSetsPath sets the crl-sets-path switch when non-empty.
	CRLSetsPath string
	// RemoteDebuggingPort exposes the DevTools HTTP endpoint when non-zero.
	RemoteDebuggingPort int
}

type pendingExtension struct {
	requestPath string
	stagedDir   string
	manifest    *extensions.Manifest
	handler     extensions.Handler
}

// Engine owns the browser process and implements
// extensions.RequestContext. Extensions registered before Launch ride the
// command line; afterwards they are loaded over the DevTools protocol.
type Engine struct {
	browser   *app.Browser
	dispatch  *taskq.Dispatcher
	resources *resmgr.Manager

	opts       Options
	stagingDir string

	mu          sync.Mutex
	running     bool
	pending     []pendingExtension
	loaded      []*extensions.Extension
	commandLine *cmdline.CommandLine

	browserCtx  context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
	cookies     *cookieManager
}

// New wires an Engine to the application shim, task queues, and resource
// manager.
func New(browser *app.Browser, dispatch *taskq.Dispatcher, rm *resmgr.Manager, opts Options) (*Engine, error) {
	stagingDir, err := os.MkdirTemp("", "chromeshell-extensions-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Engine{
		browser:    browser,
		dispatch:   dispatch,
		resources:  rm,
		opts:       opts,
		stagingDir: stagingDir,
	}, nil
}

// CommandLine returns the browser-process command line once built, nil
// before Launch.
func (e *Engine) CommandLine() *cmdline.CommandLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commandLine
}

// Extensions returns the extensions registered so far.
func (e *Engine) Extensions() []*extensions.Extension {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*extensions.Extension(nil), e.loaded...)
}

// LoadExtension implements extensions.RequestContext. Callers go through
// extensions.Load, which guarantees delivery on the UI queue with the
// manifest already resolved for internal extensions.
func (e *Engine) LoadExtension(ctx context.Context, extensionPath string, manifest *extensions.Manifest, handler extensions.Handler) {
	stagedDir, err := e.stage(extensionPath)
	if err != nil {
		if handler != nil {
			handler.OnExtensionLoadFailed(extensionPath, err)
		}
		return
	}

	e.mu.Lock()
	running := e.running
	if !running {
		e.pending = append(e.pending, pendingExtension{
			requestPath: extensionPath,
			stagedDir:   stagedDir,
			manifest:    manifest,
			handler:     handler,
		})
	}
	e.mu.Unlock()
	if !running {
		return
	}

	id, err := e.loadUnpacked(stagedDir)
	if err != nil {
		if handler != nil {
			handler.OnExtensionLoadFailed(extensionPath, err)
		}
		return
	}
	e.finishLoad(ctx, extensionPath, id, manifest, handler)
}

// loadUnpacked asks the running browser to load an unpacked extension
// directory and returns the engine-assigned id.
func (e *Engine) loadUnpacked(dir string) (string, error) {
	var id string
	err := chromedp.Run(e.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		loaded, err := cdpext.LoadUnpacked(dir).Do(ctx)
		if err != nil {
			return err
		}
		id = loaded
		return nil
	}))
	if err != nil {
		return "", fmt.Errorf("engine refused extension %s: %w", dir, err)
	}
	return id, nil
}

func (e *Engine) finishLoad(ctx context.Context, requestPath, id string, manifest *extensions.Manifest, handler extensions.Handler) {
	ext := &extensions.Extension{ID: id, Path: requestPath, Manifest: manifest}
	e.mu.Lock()
	e.loaded = append(e.loaded, ext)
	e.mu.Unlock()

	if handler != nil {
		handler.OnExtensionLoaded(ext)
	}
	if extensions.IsInternal(requestPath) {
		extensions.AddInternalToResourceManager(ctx, e.dispatch, ext, e.resources)
	}
}

// Launch builds the browser command line, starts Chromium, and fires the
// context-initialized fan-out. Pending extensions join the launch via
// load-extension.
func (e *Engine) Launch(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("engine already launched")
	}
	pending := append([]pendingExtension(nil), e.pending...)
	e.pending = nil
	e.mu.Unlock()

	exe := e.opts.Executable
	cl := cmdline.New(exe)
	e.applyOptions(cl)
	if dirs := lo.Map(pending, func(p pendingExtension, _ int) string { return p.stagedDir }); len(dirs) > 0 {
		cl.AppendSwitchWithValue(cmdline.SwitchLoadExtension, strings.Join(dirs, ","))
	}

	// The shim applies the default switch policy and notifies delegates.
	e.browser.OnBeforeCommandLineProcessing("", cl)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, e.allocatorOptions(cl)...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		// Put the snapshot back so the loads survive a retried launch.
		e.mu.Lock()
		e.pending = append(pending, e.pending...)
		e.mu.Unlock()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	chromedp.ListenBrowser(browserCtx, e.onBrowserEvent)

	e.cookies = newCookieManager(browserCtx)
	e.browser.SetCookieManager(e.cookies)

	e.commitLaunch(ctx, cl, browserCtx, cancelAlloc, cancelCtx, pending)
	return nil
}

// commitLaunch marks the engine running and resolves every registered load.
// The snapshot taken at the top of Launch rode the command line; anything
// registered between that snapshot and the running transition is picked up
// here, under the same lock, and loaded over the protocol. Every load ends
// in a handler callback either way.
func (e *Engine) commitLaunch(ctx context.Context, cl *cmdline.CommandLine, browserCtx context.Context, cancelAlloc, cancelCtx context.CancelFunc, pending []pendingExtension) {
	e.mu.Lock()
	e.running = true
	e.commandLine = cl
	e.browserCtx = browserCtx
	e.cancelAlloc = cancelAlloc
	e.cancelCtx = cancelCtx
	late := e.pending
	e.pending = nil
	e.mu.Unlock()

	e.browser.OnContextInitialized()

	// Extensions that rode the command line get ids derived from their
	// unpacked directory, the same derivation the engine uses.
	for _, p := range pending {
		e.finishLoad(ctx, p.requestPath, extensions.ComputeID(p.stagedDir), p.manifest, p.handler)
	}
	for _, p := range late {
		id, err := e.loadUnpacked(p.stagedDir)
		if err != nil {
			if p.handler != nil {
				p.handler.OnExtensionLoadFailed(p.requestPath, err)
			}
			continue
		}
		e.finishLoad(ctx, p.requestPath, id, p.manifest, p.handler)
	}
}

func (e *Engine) applyOptions(cl *cmdline.CommandLine) {
	if e.opts.OffScreenRendering {
		cl.AppendSwitch(cmdline.SwitchOffScreenRenderingEnabled)
	}
	if e.opts.EnableGPU {
		cl.AppendSwitch(cmdline.SwitchEnableGPU)
	}
	if e.opts.CachePath != "" {
		cl.AppendSwitchWithValue(cmdline.SwitchCachePath, e.opts.CachePath)
	}
	if e.opts.CRLSetsPath != "" {
		cl.AppendSwitchWithValue(cmdline.SwitchCRLSetsPath, e.opts.CRLSetsPath)
	}
	if e.opts.RemoteDebuggingPort > 0 {
		cl.AppendSwitchWithValue(cmdline.SwitchRemoteDebuggingPort, fmt.Sprintf("%d", e.opts.RemoteDebuggingPort))
	}
	if e.opts.UserDataDir != "" {
		cl.AppendSwitchWithValue(cmdline.SwitchUserDataDir, e.opts.UserDataDir)
	}
}

// allocatorOptions translates the finished command line into chromedp
// allocator options.
func (e *Engine) allocatorOptions(cl *cmdline.CommandLine) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	}
	if cl.Program() != "" {
		opts = append(opts, chromedp.ExecPath(cl.Program()))
	}
	if e.opts.Headless {
		opts = append(opts, chromedp.Headless)
	}
	for _, name := range cl.Switches() {
		if v := cl.SwitchValue(name); v != "" {
			opts = append(opts, chromedp.Flag(name, v))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}
	return opts
}

// onBrowserEvent turns engine target events into shim notifications.
func (e *Engine) onBrowserEvent(ev any) {
	switch ev := ev.(type) {
	case *target.EventTargetCreated:
		if ev.TargetInfo != nil && ev.TargetInfo.Type == "page" {
			e.browser.OnRenderProcessReady(map[string]any{
				"targetId": string(ev.TargetInfo.TargetID),
				"url":      ev.TargetInfo.URL,
			})
		}
	}
}

// Navigate points the current page at url.
func (e *Engine) Navigate(url string) error {
	e.mu.Lock()
	ctx := e.browserCtx
	running := e.running
	e.mu.Unlock()
	if !running {
		return fmt.Errorf("engine not launched")
	}
	return chromedp.Run(ctx, chromedp.Navigate(url))
}

// OpenTab creates a new page target. Delegates observe the child process
// command line before the engine spawns the renderer.
func (e *Engine) OpenTab(url string) error {
	e.mu.Lock()
	ctx := e.browserCtx
	running := e.running
	cl := e.commandLine
	e.mu.Unlock()
	if !running {
		return fmt.Errorf("engine not launched")
	}

	child := cmdline.New(cl.Program())
	for _, name := range cl.Switches() {
		child.AppendSwitchWithValue(name, cl.SwitchValue(name))
	}
	e.browser.OnBeforeChildProcessLaunch(child)

	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := target.CreateTarget(url).Do(ctx)
		return err
	}))
}

// Cookies reads the running browser's cookie jar.
func (e *Engine) Cookies() ([]*network.Cookie, error) {
	e.mu.Lock()
	running := e.running
	cm := e.cookies
	e.mu.Unlock()
	if !running {
		return nil, fmt.Errorf("engine not launched")
	}
	return cm.Cookies()
}

// DevToolsURL returns the DevTools HTTP endpoint, or "" when remote
// debugging is not exposed on a fixed port.
func (e *Engine) DevToolsURL() string {
	if e.opts.RemoteDebuggingPort == 0 {
		return ""
	}
	return fmt.Sprintf("http://127.0.0.1:%d", e.opts.RemoteDebuggingPort)
}

// Wait blocks until the browser exits or ctx is done.
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.Lock()
	browserCtx := e.browserCtx
	running := e.running
	e.mu.Unlock()
	if !running {
		return fmt.Errorf("engine not launched")
	}
	select {
	case <-browserCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts the browser down and removes the staging directory.
func (e *Engine) Close() {
	e.mu.Lock()
	cancelCtx, cancelAlloc := e.cancelCtx, e.cancelAlloc
	e.cancelCtx, e.cancelAlloc = nil, nil
	e.running = false
	e.mu.Unlock()

	if cancelCtx != nil {
		cancelCtx()
	}
	if cancelAlloc != nil {
		cancelAlloc()
	}
	if err := os.RemoveAll(e.stagingDir); err != nil {
		pterm.Warning.Printfln("Failed to remove staging directory %s: %v", e.stagingDir, err)
	}
}
