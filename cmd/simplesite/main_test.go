package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRoutesCommand(t *testing.T) {
	t.Parallel()

	t.Run("table", func(t *testing.T) {
		t.Parallel()
		out := run(t, "routes")
		assert.Contains(t, out, "#  PATTERN\n1  blog/(.+)/\n2  news/.*\n")
		assert.Contains(t, out, "6  /\n")
		assert.Contains(t, out, "pages: about, admin, blog, contact us, home")
	})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"match", []string{"--match", "blog/hello-world/"}, `"blog/hello-world/": matched, args [hello-world]`},
		{"root", []string{"--match", ""}, `"/": matched, args []`},
		{"no route", []string{"--match", "nothing"}, `"nothing/": no route`},
		{"query stripped", []string{"--match", "blog/x/?page=2"}, `"blog/x/": matched, args [x]`},
		{"legacy keeps query", []string{"--legacy", "--match", "blog/x/?page=2"}, `"blog/x/?page=2/": matched, args [x]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := run(t, append([]string{"routes"}, tt.args...)...)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	assert.Contains(t, run(t, "version"), "simplesite dev (commit none")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ADDRESS", ":9000")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("LEGACY_ROUTING", "true")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Address)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.LegacyRouting)
	assert.Equal(t, 10, cfg.PostsPerPage)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "schema_migrations", cfg.DB.MigrationsTable)
	assert.Len(t, cfg.routerOptions(nil), 2)
}

func TestMigrateCommand(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("LOG_LEVEL", "error")

	run(t, "migrate")
	assert.Equal(t, "sqlite3 migration version 3\n", run(t, "migrate", "version"))
}
