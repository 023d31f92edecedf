package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chromeshell/cli/pkg/cmdline"
)

type recordingDelegate struct {
	commandLines  int
	contexts      int
	childLaunches int
	renderReady   int
}

func (r *recordingDelegate) OnBeforeCommandLineProcessing(*Browser, *cmdline.CommandLine) {
	r.commandLines++
}

func (r *recordingDelegate) OnContextInitialized(*Browser) { r.contexts++ }

func (r *recordingDelegate) OnBeforeChildProcessLaunch(*Browser, *cmdline.CommandLine) {
	r.childLaunches++
}

func (r *recordingDelegate) OnRenderProcessReady(*Browser, map[string]any) { r.renderReady++ }

// contextOnlyDelegate implements a single hook; the other notifications
// must skip it without incident.
type contextOnlyDelegate struct {
	contexts int
}

func (c *contextOnlyDelegate) OnContextInitialized(*Browser) { c.contexts++ }

func testBrowser(delegates ...any) *Browser {
	b := New()
	b.delegates = delegates
	return b
}

func TestCommandLineProcessingAppliesDefaultsAndFansOut(t *testing.T) {
	rec := &recordingDelegate{}
	b := testBrowser(rec)

	cl := cmdline.New("chromium")
	b.OnBeforeCommandLineProcessing("", cl)

	assert.True(t, cl.HasSwitch(cmdline.SwitchUseViews))
	assert.Equal(t, "true", cl.SwitchValue(cmdline.SwitchDisableWebSecurity))
	assert.Equal(t, 1, rec.commandLines)
	require.NotNil(t, b.CommandLine())
}

func TestCommandLineProcessingSkipsChildProcesses(t *testing.T) {
	rec := &recordingDelegate{}
	b := testBrowser(rec)

	cl := cmdline.New("chromium")
	b.OnBeforeCommandLineProcessing("renderer", cl)

	assert.Empty(t, cl.Switches())
	assert.Equal(t, 0, rec.commandLines)
	assert.Nil(t, b.CommandLine())
}

type recordingCookieManager struct {
	schemes []string
}

func (r *recordingCookieManager) SetSupportedSchemes(schemes []string) { r.schemes = schemes }

func TestContextInitialized(t *testing.T) {
	rec := &recordingDelegate{}
	partial := &contextOnlyDelegate{}
	b := testBrowser(rec, partial)

	cm := &recordingCookieManager{}
	b.SetCookieManager(cm)
	b.OnContextInitialized()

	assert.Equal(t, []string{"http", "https"}, cm.schemes)
	assert.Equal(t, 1, rec.contexts)
	assert.Equal(t, 1, partial.contexts)
}

func TestPartialDelegateSkippedByOtherHooks(t *testing.T) {
	partial := &contextOnlyDelegate{}
	b := testBrowser(partial)

	b.OnBeforeCommandLineProcessing("", cmdline.New("chromium"))
	b.OnBeforeChildProcessLaunch(cmdline.New("chromium"))
	b.OnRenderProcessReady(map[string]any{"pid": 1234})

	assert.Equal(t, 0, partial.contexts)
}

func TestChildProcessAndRenderFanOut(t *testing.T) {
	rec := &recordingDelegate{}
	b := testBrowser(rec)

	b.OnBeforeChildProcessLaunch(cmdline.New("chromium"))
	b.OnRenderProcessReady(nil)

	assert.Equal(t, 1, rec.childLaunches)
	assert.Equal(t, 1, rec.renderReady)
}

type recordingPump struct {
	delays []time.Duration
}

func (r *recordingPump) ScheduleWork(delay time.Duration) { r.delays = append(r.delays, delay) }

func TestScheduleMessagePumpWork(t *testing.T) {
	b := testBrowser()

	// No pump installed: ignored.
	b.OnScheduleMessagePumpWork(5 * time.Millisecond)

	pump := &recordingPump{}
	b.SetMessagePump(pump)
	b.OnScheduleMessagePumpWork(7 * time.Millisecond)

	assert.Equal(t, []time.Duration{7 * time.Millisecond}, pump.delays)
}

func TestDefaultDelegateCrashKeys(t *testing.T) {
	b := New()

	cl := cmdline.New("chromium")
	cl.AppendSwitch(cmdline.SwitchEnableCrashReporter)
	b.OnBeforeCommandLineProcessing("", cl)
	b.OnContextInitialized()

	assert.Equal(t, "chromeshell", b.CrashKey("client"))
}

func TestDefaultDelegateNoCrashReporter(t *testing.T) {
	b := New()

	b.OnBeforeCommandLineProcessing("", cmdline.New("chromium"))
	b.OnContextInitialized()

	assert.Equal(t, "", b.CrashKey("client"))
}
