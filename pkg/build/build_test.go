package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeToolchain writes a shell script posing as a compiler. The script
// receives the builder's "-o <output> <source>" tail as $1 $2 $3.
func fakeToolchain(t *testing.T, body string) Toolchain {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fakecc")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755)
	require.NoError(t, err)

	return Toolchain{Compiler: path}
}

func testBuilder(t *testing.T, tc Toolchain) *Builder {
	t.Helper()

	return &Builder{
		Toolchains: map[string]Toolchain{".src": tc},
		OutputDir:  t.TempDir(),
		Timeout:    5 * time.Second,
	}
}

func writeSource(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("int main() {}\n"), 0644))
	return path
}

func TestBuildPassesThroughPrebuiltBinaries(t *testing.T) {
	builder := testBuilder(t, Toolchain{Compiler: "false"})

	for _, path := range []string{"/usr/bin/player", "player", "bot.exe"} {
		out, err := builder.Build(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, path, out)
	}
}

func TestBuildProducesExecutableArtifact(t *testing.T) {
	builder := testBuilder(t, fakeToolchain(t, `echo '#!/bin/sh' > "$2"`))
	source := writeSource(t, "player.src")

	out, err := builder.Build(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, builder.OutputDir, filepath.Dir(out))
	assert.True(t, strings.HasPrefix(filepath.Base(out), "player-"))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.EqualValues(t, 0755, info.Mode().Perm())
}

func TestBuildSeparatesArtifactsBySourcePath(t *testing.T) {
	builder := testBuilder(t, fakeToolchain(t, `echo bin > "$2"`))

	first := writeSource(t, "player.src")
	second := writeSource(t, "player.src")

	out1, err := builder.Build(context.Background(), first)
	require.NoError(t, err)
	out2, err := builder.Build(context.Background(), second)
	require.NoError(t, err)

	assert.NotEqual(t, out1, out2)
}

func TestBuildReportsCompilerFailure(t *testing.T) {
	builder := testBuilder(t, fakeToolchain(t, `echo "player.src:3: expected ';'" >&2; exit 3`))
	source := writeSource(t, "player.src")

	_, err := builder.Build(context.Background(), source)

	var buildErr *Error
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, 3, buildErr.ExitCode)
	assert.Contains(t, buildErr.Stderr, "expected ';'")
	assert.False(t, IsTimeout(err))
}

func TestBuildReportsMissingArtifact(t *testing.T) {
	builder := testBuilder(t, fakeToolchain(t, `exit 0`))
	source := writeSource(t, "player.src")

	_, err := builder.Build(context.Background(), source)

	var buildErr *Error
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, 0, buildErr.ExitCode)
	assert.Contains(t, buildErr.Error(), "no artifact")
}

func TestBuildTimesOut(t *testing.T) {
	builder := testBuilder(t, fakeToolchain(t, `exec sleep 10`))
	builder.Timeout = 100 * time.Millisecond
	source := writeSource(t, "player.src")

	start := time.Now()
	_, err := builder.Build(context.Background(), source)

	assert.True(t, IsTimeout(err), "expected a timeout error, got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestBuildFailsOnMissingSource(t *testing.T) {
	builder := testBuilder(t, fakeToolchain(t, `exit 0`))

	_, err := builder.Build(context.Background(), filepath.Join(t.TempDir(), "ghost.src"))
	assert.Error(t, err)
}
