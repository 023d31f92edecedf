package extensions

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"github.com/chromeshell/cli/pkg/resmgr"
	"github.com/chromeshell/cli/pkg/resources"
	"github.com/chromeshell/cli/pkg/taskq"
)

// RequestContext registers extensions with the engine's per-profile
// extension subsystem. Implementations are UI-queue affine.
type RequestContext interface {
	LoadExtension(ctx context.Context, extensionPath string, manifest *Manifest, handler Handler)
}

// Handler receives the outcome of a load request.
type Handler interface {
	OnExtensionLoaded(ext *Extension)
	OnExtensionLoadFailed(extensionPath string, err error)
}

// Load registers the extension at extensionPath with the request context.
// Internal extensions get their manifest read from the resource bundle on
// the File queue first; external extensions are handed to the engine as-is
// (it reads the manifest from disk itself). Runs on the UI queue, reposting
// itself there when called from anywhere else.
func Load(ctx context.Context, d *taskq.Dispatcher, rc RequestContext, extensionPath string, handler Handler) {
	if !taskq.CurrentlyOn(ctx, taskq.UI) {
		d.Post(taskq.UI, func(ctx context.Context) {
			Load(ctx, d, rc, extensionPath, handler)
		})
		return
	}

	if IsInternal(extensionPath) {
		internalManifest(ctx, d, extensionPath, func(ctx context.Context, manifest *Manifest) {
			rc.LoadExtension(ctx, extensionPath, manifest, handler)
		})
		return
	}
	rc.LoadExtension(ctx, extensionPath, nil, handler)
}

// internalManifest reads and parses a bundled extension's manifest on the
// File queue and delivers the result to fn back on the UI queue. Failures
// are logged and delivered as a nil manifest; the load still proceeds.
func internalManifest(ctx context.Context, d *taskq.Dispatcher, extensionPath string, fn func(ctx context.Context, manifest *Manifest)) {
	if !taskq.CurrentlyOn(ctx, taskq.File) {
		d.Post(taskq.File, func(ctx context.Context) {
			internalManifest(ctx, d, extensionPath, fn)
		})
		return
	}

	deliver := func(manifest *Manifest) {
		d.Post(taskq.UI, func(ctx context.Context) {
			fn(ctx, manifest)
		})
	}

	manifestPath := InternalResourcePath(JoinPath(extensionPath, "manifest.json"))
	contents, err := resources.Load(manifestPath)
	if err != nil || len(contents) == 0 {
		pterm.Error.Printfln("Failed to load manifest from %s", manifestPath)
		deliver(nil)
		return
	}

	manifest, err := ParseManifest(contents)
	if err != nil {
		pterm.Error.Printfln("Failed to parse manifest from %s; %v", manifestPath, err)
		deliver(nil)
		return
	}
	deliver(manifest)
}

// ResourceContents reads an extension resource: bundle for internal paths,
// disk for external ones. The read happens on the File queue; callers on
// any other queue block until it completes.
func ResourceContents(ctx context.Context, d *taskq.Dispatcher, extensionPath string) ([]byte, error) {
	if !taskq.CurrentlyOn(ctx, taskq.File) {
		var data []byte
		var err error
		if !d.PostAndWait(taskq.File, func(ctx context.Context) {
			data, err = ResourceContents(ctx, d, extensionPath)
		}) {
			return nil, fmt.Errorf("task queues are shut down")
		}
		return data, err
	}

	if IsInternal(extensionPath) {
		return resources.Load(InternalResourcePath(extensionPath))
	}
	return os.ReadFile(extensionPath)
}

// resourceOrder is the priority internal extension providers register at.
const resourceOrder = 50

// AddInternalToResourceManager registers a provider serving the extension's
// bundled resources under its origin. When an on-disk resource directory is
// configured the provider reads from it, otherwise from the embedded
// bundle. Runs on the IO queue, reposting itself there when needed.
func AddInternalToResourceManager(ctx context.Context, d *taskq.Dispatcher, ext *Extension, rm *resmgr.Manager) {
	if !taskq.CurrentlyOn(ctx, taskq.IO) {
		d.Post(taskq.IO, func(ctx context.Context) {
			AddInternalToResourceManager(ctx, d, ext, rm)
		})
		return
	}

	origin := Origin(ext.ID)
	resourcePath := InternalResourcePath(ext.Path)

	if dir := resources.Dir(); dir != "" {
		rm.AddProvider(resmgr.DirectoryProvider(origin, dir+"/"+resourcePath), resourceOrder, ext.ID)
		return
	}
	rm.AddProvider(bundleProvider(origin, resourcePath), resourceOrder, ext.ID)
}

// bundleProvider serves requests under origin from the embedded bundle.
func bundleProvider(origin, resourcePath string) resmgr.Provider {
	return resmgr.FuncProvider(func(url string) ([]byte, bool) {
		if len(url) <= len(origin) || url[:len(origin)] != origin {
			return nil, false
		}
		data, err := resources.Load(resourcePath + "/" + url[len(origin):])
		if err != nil {
			return nil, false
		}
		return data, true
	})
}
