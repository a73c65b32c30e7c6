package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluttervet/fluttervet/internal/adapters/outbound/scanner"
	"github.com/fluttervet/fluttervet/internal/domain"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func TestScan_CollectsDartFilesSorted(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"pubspec.yaml":            "name: demo\n",
		"lib/zeta.dart":           "",
		"lib/alpha.dart":          "",
		"test/alpha_test.dart":    "",
		"README.md":               "",
		"build/generated.dart":    "",
		".dart_tool/cached.dart":  "",
		"node_modules/pkg/x.dart": "",
	})

	got, err := scanner.New().Scan(dir)

	require.NoError(t, err)
	assert.True(t, got.HasPubspec)
	assert.Equal(t, []string{"lib/alpha.dart", "lib/zeta.dart", "test/alpha_test.dart"}, got.DartFiles)
	assert.Equal(t, []string{"test/alpha_test.dart"}, got.TestFiles)
	assert.Contains(t, got.AllFiles, "README.md")
	assert.NotContains(t, got.AllFiles, "build/generated.dart")
}

func TestScan_ExcludeFragments(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"pubspec.yaml":            "name: demo\n",
		"lib/main.dart":           "",
		"lib/generated/gen.dart":  "",
		"example/demo/demo.dart":  "",
		"integration/it_one.dart": "",
	})

	got, err := scanner.New().Scan(dir, "generated", "example/")

	require.NoError(t, err)
	assert.Equal(t, []string{"integration/it_one.dart", "lib/main.dart"}, got.DartFiles)
}

func TestScan_NestedPubspecDoesNotCount(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"lib/main.dart":             "",
		"packages/sub/pubspec.yaml": "name: sub\n",
	})

	got, err := scanner.New().Scan(dir)

	require.NoError(t, err)
	assert.False(t, got.HasPubspec)
}

func TestScan_NotADirectory(t *testing.T) {
	dir := writeTree(t, map[string]string{"pubspec.yaml": "name: demo\n"})

	_, err := scanner.New().Scan(filepath.Join(dir, "pubspec.yaml"))

	require.Error(t, err)
	assert.Equal(t, domain.ConfigurationError, domain.KindOf(err))
}

func TestScan_MissingPath(t *testing.T) {
	_, err := scanner.New().Scan(filepath.Join(t.TempDir(), "nope"))

	require.Error(t, err)
	assert.Equal(t, domain.ConfigurationError, domain.KindOf(err))
}

func TestScan_Deterministic(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"pubspec.yaml":     "name: demo\n",
		"lib/a.dart":       "",
		"lib/b.dart":       "",
		"lib/c/d.dart":     "",
		"test/t_test.dart": "",
	})

	first, err := scanner.New().Scan(dir)
	require.NoError(t, err)
	second, err := scanner.New().Scan(dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
