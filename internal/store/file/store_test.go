package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/dock/internal/domain"
)

const seedJSON = `{
  "dockIcon": "assets/dock-icon.png",
  "position": { "x": 100, "y": 300 },
  "categories": [
    {
      "name": "Tools",
      "icon": "🔧",
      "items": [
        { "name": "VS Code", "type": "exe", "path": "C:\\code.exe", "icon": "auto" }
      ]
    }
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromDisk(t *testing.T) {
	cfg := Load(writeFile(t, "dock-config.json", seedJSON))

	require.Len(t, cfg.Categories, 1)
	assert.Equal(t, "Tools", cfg.Categories[0].Name)
	require.Len(t, cfg.Categories[0].Items, 1)
	assert.Equal(t, domain.Item{Name: "VS Code", Type: domain.TypeExe, Path: `C:\code.exe`, Icon: "auto"}, cfg.Categories[0].Items[0])
}

func TestLoadFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return "/nonexistent/path.json" },
		},
		{
			name: "unparseable json",
			path: func(t *testing.T) string { return writeFile(t, "c.json", "{not json") },
		},
		{
			name: "truncated write",
			path: func(t *testing.T) string { return writeFile(t, "c.json", seedJSON[:40]) },
		},
		{
			name: "empty file",
			path: func(t *testing.T) string { return writeFile(t, "c.json", "  \n") },
		},
		{
			name: "null document",
			path: func(t *testing.T) string { return writeFile(t, "c.json", "null") },
		},
		{
			name: "wrong shape",
			path: func(t *testing.T) string { return writeFile(t, "c.json", `["a"]`) },
		},
		{
			name: "unparseable yaml",
			path: func(t *testing.T) string { return writeFile(t, "c.yaml", "categories: [unclosed") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			assert.Equal(t, domain.Default(), Load(path))

			cfg, err := NewLoader(path).Load()
			assert.Error(t, err)
			assert.Equal(t, domain.Default(), cfg)
		})
	}
}

func TestLoadDefaultValues(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, "assets/dock-icon.png", cfg.DockIcon)
	assert.Equal(t, domain.Position{X: 100, Y: 300}, cfg.Position)
	assert.NotNil(t, cfg.Categories)
	assert.Empty(t, cfg.Categories)
}

func TestSaveThenLoad(t *testing.T) {
	path := writeFile(t, "dock-config.json", seedJSON)
	cfg := Load(path)
	cfg.Categories[0].Name = "Changed"

	require.NoError(t, Save(path, cfg))
	reloaded := Load(path)
	assert.Equal(t, "Changed", reloaded.Categories[0].Name)
}

func TestRoundTripStability(t *testing.T) {
	contents := map[string]string{
		"seed.json":  seedJSON,
		"empty.json": `{"dockIcon":"x.png","position":{"x":1,"y":2},"categories":[]}`,
		"no-items.json": `{"dockIcon":"x.png","position":{"x":1,"y":2},
			"categories":[{"name":"A","icon":"a"}]}`,
		"ids.json": `{"dockIcon":"x.png","position":{"x":-5,"y":0},"categories":[
			{"id":"c1","name":"A","icon":"a","items":[{"id":"i1","name":"n","type":"shell","path":"a && b"}]}]}`,
		"seed.yaml": `dockIcon: assets/dock-icon.png
position: {x: 100, y: 300}
categories:
  - name: Tools
    icon: "🔧"
    items:
      - {name: Steam, type: url, path: "steam://open/games", icon: auto}
`,
	}

	for name, content := range contents {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, content)
			first, err := NewLoader(path).Read()
			require.NoError(t, err)

			require.NoError(t, Save(path, first))
			second, err := NewLoader(path).Read()
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}

func TestSaveIsFormattedText(t *testing.T) {
	cfg := domain.AddCategory(domain.Default(), "Tools", "🔧")
	cfg = domain.AddItem(cfg, "Tools", domain.Item{Name: "build", Type: domain.TypeShell, Path: "make && make install"})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dock-config.json")
		require.NoError(t, Save(path, cfg))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		text := string(data)
		assert.Greater(t, strings.Count(text, "\n"), 5)
		assert.Contains(t, text, "\n  \"categories\": [")
		assert.Contains(t, text, "make && make install")
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dock-config.yml")
		require.NoError(t, Save(path, cfg))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "categories:\n  - name: Tools")
		assert.Equal(t, cfg, Load(path))
	})
}

func TestSaveOverwrites(t *testing.T) {
	path := writeFile(t, "dock-config.json", seedJSON)
	require.NoError(t, Save(path, domain.Default()))
	assert.Equal(t, domain.Default(), Load(path))
}

func TestSaveReplacesFileWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dock-config.json")
	l := NewLoader(path)

	require.NoError(t, l.Save(domain.AddCategory(domain.Default(), "Tools", "🔧")))
	require.NoError(t, l.Save(domain.AddCategory(domain.Default(), "Games", "🎮")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dock-config.json", entries[0].Name())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	cfg, err := l.Read()
	require.NoError(t, err)
	assert.Equal(t, "Games", cfg.Categories[0].Name)
}

func TestSaveFailureLeavesNoTempFile(t *testing.T) {
	path := writeFile(t, "dock-config.json", seedJSON)
	l := NewLoader(path)
	// the target is now a non-empty directory, so the rename fails
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "keep"), 0o755))

	require.Error(t, l.Save(domain.Default()))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
}

func TestSaveNormalizesNilSequences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dock-config.json")
	require.NoError(t, Save(path, domain.Configuration{Categories: []domain.Category{{Name: "A"}}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("a/dock-config.json"))
	assert.Equal(t, FormatYAML, FormatFor("a/dock.YAML"))
	assert.Equal(t, FormatYAML, FormatFor("dock.yml"))
	assert.Equal(t, FormatJSON, FormatFor("dock"))
	assert.Equal(t, "yaml", FormatYAML.String())
}

func TestLoaderPath(t *testing.T) {
	assert.Equal(t, "x.json", NewLoader("x.json").Path())
}
