// Package icons produces the PNG shown for an item on the dock.
//
// The lookup order is: explicit icon (data URI or image file), icon extracted
// from the target binary for exe/lnk items, then a rendered text tile.
package icons

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/logger"
)

// Extractor pulls the embedded icon out of an executable or shortcut.
// found is false when the target carries no icon.
type Extractor interface {
	Extract(ctx context.Context, path string) (png []byte, found bool, err error)
}

// NoopExtractor never finds anything. Platforms without an icon API use it.
type NoopExtractor struct{}

func (NoopExtractor) Extract(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Cache stores encoded icons between requests.
type Cache interface {
	GetCachedIcon(ctx context.Context, key string) ([]byte, error)
	CacheIcon(ctx context.Context, key string, png []byte, ttl time.Duration) error
	FlushIcons(ctx context.Context) error
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

var errNotPNG = errors.New("not a PNG image")

// Service resolves item icons.
type Service struct {
	extractor Extractor
	renderer  *Renderer
	cache     Cache
	cacheTTL  time.Duration
	logger    logger.Logger
}

// NewService creates an icon service. cache may be nil.
func NewService(extractor Extractor, renderer *Renderer, cache Cache, cacheTTL time.Duration, log logger.Logger) *Service {
	if extractor == nil {
		extractor = NoopExtractor{}
	}
	return &Service{
		extractor: extractor,
		renderer:  renderer,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    log,
	}
}

// Icon returns PNG bytes for item. It only fails when even the fallback
// tile cannot be drawn.
func (s *Service) Icon(ctx context.Context, categoryName string, item domain.Item) ([]byte, error) {
	key := cacheKey(categoryName, item)
	if s.cache != nil {
		if data, err := s.cache.GetCachedIcon(ctx, key); err != nil {
			s.logger.Debug("icon cache unavailable", logger.Error(err))
		} else if data != nil {
			return data, nil
		}
	}

	data, err := s.resolve(ctx, item)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheIcon(ctx, key, data, s.cacheTTL); err != nil {
			s.logger.Debug("failed to cache icon", logger.Error(err))
		}
	}
	return data, nil
}

// Flush drops every cached icon so the next request re-extracts it.
func (s *Service) Flush(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.FlushIcons(ctx)
}

func (s *Service) resolve(ctx context.Context, item domain.Item) ([]byte, error) {
	if !item.UsesAutoIcon() {
		data, err := explicitIcon(item.Icon)
		if err == nil {
			return data, nil
		}
		s.logger.Debug("explicit icon unusable, falling back",
			logger.String("item", item.Name),
			logger.Error(err))
	}

	if item.WantsExtraction() {
		data, found, err := s.extractor.Extract(ctx, item.Path)
		switch {
		case err != nil:
			s.logger.Debug("icon extraction failed",
				logger.String("path", item.Path),
				logger.Error(err))
		case found:
			return data, nil
		}
	}

	return s.renderer.Render(domain.ShortLabel(item.Type))
}

// explicitIcon loads a data URI or a PNG file path.
func explicitIcon(ref string) ([]byte, error) {
	var data []byte
	if rest, ok := strings.CutPrefix(ref, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("unsupported data URI")
		}
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode data URI: %w", err)
		}
		data = decoded
	} else {
		b, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to read icon: %w", err)
		}
		data = b
	}

	if !bytes.HasPrefix(data, pngMagic) {
		return nil, errNotPNG
	}
	return data, nil
}

// cacheKey changes whenever an input of the icon changes.
func cacheKey(categoryName string, item domain.Item) string {
	sum := sha256.Sum256([]byte(string(item.Type) + "\x00" + item.Path + "\x00" + item.Icon))
	return domain.UsageKey(categoryName, item) + ":" + hex.EncodeToString(sum[:8])
}
