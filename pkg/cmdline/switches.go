package cmdline

// Switch names understood by the shell and the underlying browser.
// Names match the Chromium command line (no leading dashes).
const (
	SwitchUseViews                  = "use-views"
	SwitchHideFrame                 = "hide-frame"
	SwitchHideControls              = "hide-controls"
	SwitchDisableWebSecurity        = "disable-web-security"
	SwitchOffScreenRenderingEnabled = "off-screen-rendering-enabled"
	SwitchSharedTextureEnabled      = "shared-texture-enabled"
	SwitchEnableGPU                 = "enable-gpu"
	SwitchDisableGPU                = "disable-gpu"
	SwitchDisableGPUCompositing     = "disable-gpu-compositing"
	SwitchTopChromeMD               = "top-chrome-md"
	SwitchCachePath                 = "cache-path"
	SwitchGPUShaderDiskCache        = "disable-gpu-shader-disk-cache"
	SwitchEnableCrashReporter       = "enable-crash-reporter"
	SwitchCRLSetsPath               = "crl-sets-path"
	SwitchExternalMessagePump       = "external-message-pump"
	SwitchRemoteDebuggingPort       = "remote-debugging-port"
	SwitchLoadExtension             = "load-extension"
	SwitchUserDataDir               = "user-data-dir"
)

// ApplyBrowserDefaults appends the switch set the shell always passes to the
// browser process. Must only be called for the browser process itself, never
// for child (renderer/GPU/utility) processes.
func ApplyBrowserDefaults(cl *CommandLine) {
	cl.AppendSwitch(SwitchUseViews)
	cl.AppendSwitch(SwitchHideFrame)
	cl.AppendSwitch(SwitchHideControls)
	cl.AppendSwitchWithValue(SwitchDisableWebSecurity, "true")

	// Off-screen rendering runs faster with software compositing unless a
	// shared texture is in play or the user explicitly asked for the GPU.
	// Disabling the GPU also disables WebGL.
	if cl.HasSwitch(SwitchOffScreenRenderingEnabled) &&
		!cl.HasSwitch(SwitchSharedTextureEnabled) &&
		!cl.HasSwitch(SwitchEnableGPU) {
		cl.AppendSwitch(SwitchDisableGPU)
		cl.AppendSwitch(SwitchDisableGPUCompositing)
	}

	// Non-material mode makes menu buttons show hover state under views.
	if cl.HasSwitch(SwitchUseViews) && !cl.HasSwitch(SwitchTopChromeMD) {
		cl.AppendSwitchWithValue(SwitchTopChromeMD, "non-material")
	}

	// Don't create a GPUCache directory when no cache path is set.
	if !cl.HasSwitch(SwitchCachePath) && !cl.HasSwitch(SwitchGPUShaderDiskCache) {
		cl.AppendSwitch(SwitchGPUShaderDiskCache)
	}
}
