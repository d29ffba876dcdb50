package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
)

// Opener hands a document link to the platform, which downloads or
// displays it.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// BrowserOpener opens links with the system's default browser.
type BrowserOpener struct{}

func (BrowserOpener) Open(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrNoOpenTarget
	}
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	zerolog.Ctx(ctx).Info().Str("component", "export").Str("url", url).Msg("document opened")
	return nil
}
