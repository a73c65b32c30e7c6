package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluttervet/fluttervet/internal/application"
	"github.com/fluttervet/fluttervet/internal/domain"
)

type fakeRegistry struct {
	versions map[string]string
	errs     map[string]error
}

func (f *fakeRegistry) LatestVersion(_ context.Context, pkg string) (string, error) {
	if err := f.errs[pkg]; err != nil {
		return "", err
	}
	if v, ok := f.versions[pkg]; ok {
		return v, nil
	}
	return "", errors.New("package not found: " + pkg)
}

func TestCheckDependencies(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"pubspec.yaml": `name: demo
dependencies:
  flutter:
    sdk: flutter
  http: ^1.2.0
  collection: ^1.18.0
`,
	})
	registry := &fakeRegistry{versions: map[string]string{
		"http":       "1.2.0",
		"collection": "1.19.1",
	}}
	svc := application.NewDepsService(registry, discard())

	got, err := svc.CheckDependencies(context.Background(), dir)

	require.NoError(t, err)
	// SDK-provided packages are skipped; the rest come back sorted.
	require.Len(t, got, 2)

	assert.Equal(t, "collection", got[0].Name)
	assert.Equal(t, "^1.18.0", got[0].Declared)
	assert.Equal(t, "1.19.1", got[0].Latest)
	assert.False(t, got[0].UpToDate)

	assert.Equal(t, "http", got[1].Name)
	assert.Equal(t, "1.2.0", got[1].Latest)
	assert.True(t, got[1].UpToDate)
}

func TestCheckDependencies_LookupFailureIsPerDependency(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"pubspec.yaml": `name: demo
dependencies:
  http: ^1.2.0
  private_pkg: ^0.1.0
`,
	})
	registry := &fakeRegistry{
		versions: map[string]string{"http": "1.2.0"},
		errs:     map[string]error{"private_pkg": errors.New("404")},
	}
	svc := application.NewDepsService(registry, discard())

	got, err := svc.CheckDependencies(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Empty(t, got[0].LookupErr)
	assert.Equal(t, "private_pkg", got[1].Name)
	assert.Equal(t, "404", got[1].LookupErr)
	assert.False(t, got[1].UpToDate)
	assert.Empty(t, got[1].Latest)
}

func TestCheckDependencies_NoManifest(t *testing.T) {
	svc := application.NewDepsService(&fakeRegistry{}, discard())

	got, err := svc.CheckDependencies(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDeclaredConstraintMatching(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"pubspec.yaml": "name: demo\ndependencies:\n  a: ^2.0.0\n  b: \">=2.0.0\"\n  c: ~2.0.0\n",
	})
	registry := &fakeRegistry{versions: map[string]string{
		"a": "2.0.0", "b": "2.0.0", "c": "2.0.0",
	}}
	svc := application.NewDepsService(registry, discard())

	got, err := svc.CheckDependencies(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].UpToDate, "caret constraint")
	assert.True(t, got[1].UpToDate, "quoted range constraint")
	assert.True(t, got[2].UpToDate, "tilde constraint")
}

var _ domain.PackageRegistry = (*fakeRegistry)(nil)
