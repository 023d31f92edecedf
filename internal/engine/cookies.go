package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// cookieManager implements app.CookieManager on top of the engine's
// storage domain.
type cookieManager struct {
	browserCtx context.Context

	mu      sync.Mutex
	schemes []string
}

func newCookieManager(browserCtx context.Context) *cookieManager {
	return &cookieManager{browserCtx: browserCtx}
}

// SetSupportedSchemes records the schemes cookies are accepted for.
func (c *cookieManager) SetSupportedSchemes(schemes []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.schemes = append([]string(nil), schemes...)
}

// SupportedSchemes returns the registered cookieable schemes.
func (c *cookieManager) SupportedSchemes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.schemes...)
}

// Cookies reads the browser's cookie jar.
func (c *cookieManager) Cookies() ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := chromedp.Run(c.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	return cookies, nil
}
