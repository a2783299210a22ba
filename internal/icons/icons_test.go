package icons

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/logger"
	redisstore "github.com/MrSnakeDoc/dock/internal/store/redis"
)

type stubExtractor struct {
	data  []byte
	found bool
	err   error
	calls int
}

func (s *stubExtractor) Extract(context.Context, string) ([]byte, bool, error) {
	s.calls++
	return s.data, s.found, s.err
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func tile(t *testing.T, r *Renderer, label string) []byte {
	t.Helper()
	data, err := r.Render(label)
	require.NoError(t, err)
	return data
}

func TestRenderProducesSquarePNG(t *testing.T) {
	r := newRenderer(t)

	for _, label := range []string{"EXE", ">_", "?", "LONGER"} {
		data := tile(t, r, label)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err, label)
		assert.Equal(t, TileSize, img.Bounds().Dx())
		assert.Equal(t, TileSize, img.Bounds().Dy())
	}

	// the label is actually drawn
	assert.NotEqual(t, tile(t, r, "EXE"), tile(t, r, "DIR"))
}

func TestIconFallsBackToRenderedTile(t *testing.T) {
	r := newRenderer(t)
	svc := NewService(nil, r, nil, 0, logger.NewNop())

	got, err := svc.Icon(context.Background(), "Tools", domain.Item{Name: "Docs", Type: domain.TypeURL, Icon: "auto"})
	require.NoError(t, err)
	assert.Equal(t, tile(t, r, "WWW"), got)
}

func TestIconUsesExtractorForExecutables(t *testing.T) {
	r := newRenderer(t)
	extracted := append([]byte{}, pngMagic...)
	ex := &stubExtractor{data: extracted, found: true}
	svc := NewService(ex, r, nil, 0, logger.NewNop())

	got, err := svc.Icon(context.Background(), "Tools", domain.Item{Name: "Code", Type: domain.TypeExe, Path: "/usr/bin/code"})
	require.NoError(t, err)
	assert.Equal(t, extracted, got)

	// folders are never extracted
	_, err = svc.Icon(context.Background(), "Tools", domain.Item{Name: "Home", Type: domain.TypeFolder, Path: "/home"})
	require.NoError(t, err)
	assert.Equal(t, 1, ex.calls)
}

func TestIconExtractorFailureFallsBack(t *testing.T) {
	r := newRenderer(t)
	svc := NewService(&stubExtractor{err: errors.New("no shell32")}, r, nil, 0, logger.NewNop())

	got, err := svc.Icon(context.Background(), "Tools", domain.Item{Name: "Code", Type: domain.TypeLnk})
	require.NoError(t, err)
	assert.Equal(t, tile(t, r, "LNK"), got)
}

func TestIconExplicit(t *testing.T) {
	r := newRenderer(t)
	ex := &stubExtractor{}
	svc := NewService(ex, r, nil, 0, logger.NewNop())
	fakePNG := append(append([]byte{}, pngMagic...), 1, 2, 3)

	t.Run("data uri", func(t *testing.T) {
		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(fakePNG)
		got, err := svc.Icon(context.Background(), "Tools", domain.Item{Name: "a", Type: domain.TypeExe, Icon: uri})
		require.NoError(t, err)
		assert.Equal(t, fakePNG, got)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "icon.png")
		require.NoError(t, os.WriteFile(path, fakePNG, 0o644))
		got, err := svc.Icon(context.Background(), "Tools", domain.Item{Name: "b", Type: domain.TypeShell, Icon: path})
		require.NoError(t, err)
		assert.Equal(t, fakePNG, got)
	})

	t.Run("unusable falls back", func(t *testing.T) {
		got, err := svc.Icon(context.Background(), "Tools", domain.Item{Name: "c", Type: domain.TypeShell, Icon: "/missing.png"})
		require.NoError(t, err)
		assert.Equal(t, tile(t, r, ">_"), got)
	})

	assert.Zero(t, ex.calls)
}

func TestExplicitIconRejectsNonPNG(t *testing.T) {
	_, err := explicitIcon("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("GIF89a")))
	assert.ErrorIs(t, err, errNotPNG)

	_, err = explicitIcon("data:text/plain,hello")
	assert.Error(t, err)
}

func TestIconCachedInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := redisstore.NewStore(client)

	ex := &stubExtractor{data: append([]byte{}, pngMagic...), found: true}
	svc := NewService(ex, newRenderer(t), store, time.Hour, logger.NewNop())
	item := domain.Item{Name: "Code", Type: domain.TypeExe, Path: "/usr/bin/code"}

	first, err := svc.Icon(context.Background(), "Tools", item)
	require.NoError(t, err)
	second, err := svc.Icon(context.Background(), "Tools", item)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, ex.calls)

	// a different path is a different key
	item.Path = "/opt/code"
	_, err = svc.Icon(context.Background(), "Tools", item)
	require.NoError(t, err)
	assert.Equal(t, 2, ex.calls)

	require.NoError(t, svc.Flush(context.Background()))
	_, err = svc.Icon(context.Background(), "Tools", item)
	require.NoError(t, err)
	assert.Equal(t, 3, ex.calls)
}

func TestFlushWithoutCache(t *testing.T) {
	svc := NewService(nil, newRenderer(t), nil, 0, logger.NewNop())
	assert.NoError(t, svc.Flush(context.Background()))
}
