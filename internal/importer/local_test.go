package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("a", size)), 0o644))
}

func TestLocalSource_ListChildren(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), 3)
	writeFile(t, filepath.Join(root, "a.png"), 5)
	writeFile(t, filepath.Join(root, "zeta", "inner.mp3"), 7)
	writeFile(t, filepath.Join(root, "alpha", "x.zip"), 1)

	src := NewLocalSource([]string{root})
	entries, err := src.ListChildren(context.Background(), root)
	require.NoError(t, err)

	var got []string
	for _, e := range entries {
		got = append(got, e.Name)
	}
	assert.Equal(t, []string{"alpha", "zeta", "a.png", "b.txt"}, got)
	assert.True(t, entries[0].IsDir)
	assert.Zero(t, entries[0].Size)
	assert.Equal(t, int64(5), entries[2].Size)
	assert.Equal(t, filepath.Join(root, "a.png"), entries[2].Handle)
}

func TestLocalSource_AccessDenied(t *testing.T) {
	allowed := t.TempDir()
	other := t.TempDir()

	src := NewLocalSource([]string{allowed})

	_, err := src.ListChildren(context.Background(), other)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = src.ListChildren(context.Background(), filepath.Join(allowed, ".."))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestLocalSource_IsPathAllowed(t *testing.T) {
	src := NewLocalSource([]string{"/home/user"})

	assert.True(t, src.IsPathAllowed("/home/user"))
	assert.True(t, src.IsPathAllowed("/home/user/docs"))
	assert.False(t, src.IsPathAllowed("/home/user2"))
	assert.False(t, src.IsPathAllowed("/etc"))

	everything := NewLocalSource([]string{"/"})
	assert.True(t, everything.IsPathAllowed("/"))
	assert.True(t, everything.IsPathAllowed("/etc"))
	assert.True(t, everything.IsPathAllowed("/home/user/docs"))

	trailing := NewLocalSource([]string{"/home/user/"})
	assert.True(t, trailing.IsPathAllowed("/home/user/docs"))
	assert.False(t, trailing.IsPathAllowed("/home/user2"))

	all := NewLocalSource([]string{"*"})
	assert.True(t, all.IsPathAllowed("/etc"))
	assert.Equal(t, []string{"/"}, all.Roots())
}

func TestLocalSource_NotDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f.txt")
	writeFile(t, file, 1)

	src := NewLocalSource([]string{root})
	_, err := src.ListChildren(context.Background(), file)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestLocalSource_ReadFile(t *testing.T) {
	root := t.TempDir()
	small := filepath.Join(root, "small.txt")
	require.NoError(t, os.WriteFile(small, []byte("hello"), 0o644))
	big := filepath.Join(root, "big.txt")
	writeFile(t, big, MaxFileSize+10)
	bin := filepath.Join(root, "blob.bin")
	require.NoError(t, os.WriteFile(bin, []byte{0xff, 0xfe, 0x00}, 0o644))

	src := NewLocalSource([]string{root})
	ctx := context.Background()

	content, err := src.ReadFile(ctx, small)
	require.NoError(t, err)
	assert.Equal(t, "hello", content.Content)
	assert.Equal(t, "utf-8", content.Encoding)
	assert.False(t, content.Truncated)

	content, err = src.ReadFile(ctx, big)
	require.NoError(t, err)
	assert.True(t, content.Truncated)
	assert.Len(t, content.Content, MaxFileSize)
	assert.Equal(t, int64(MaxFileSize+10), content.Size)

	content, err = src.ReadFile(ctx, bin)
	require.NoError(t, err)
	assert.True(t, content.IsBinary)
	assert.Equal(t, "binary", content.Encoding)

	_, err = src.ReadFile(ctx, root)
	assert.ErrorIs(t, err, ErrIsDirectory)
}

func TestLocalSource_ImportEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Music", "song.flac"), 100)
	writeFile(t, filepath.Join(root, "clip.mov"), 50)

	im := New(Options{MaxDepth: 1})
	im.Register("local", NewLocalSource([]string{root}))

	result, err := im.Import(context.Background(), "local", root)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Music", result.Records[0].Name)
	assert.Equal(t, "clip.mov", result.Records[1].Name)

	expanded, err := im.Expand(context.Background(), result.Records[0])
	require.NoError(t, err)
	require.Len(t, expanded.Records, 1)
	assert.Equal(t, "song.flac", expanded.Records[0].Name)
	assert.Equal(t, int64(100), expanded.Records[0].Size)
}

func TestLocalSource_RootSlashListsBelow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "note.txt"), 2)

	src := NewLocalSource([]string{"/"})
	entries, err := src.ListChildren(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "note.txt", entries[0].Name)
}

func TestLocalSource_SymlinkOutsideRootDenied(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	secret := filepath.Join(outside, "id_rsa")
	require.NoError(t, os.WriteFile(secret, []byte("PRIVATE"), 0o600))
	writeFile(t, filepath.Join(root, "visible.txt"), 1)

	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(secret, filepath.Join(root, "key")))

	src := NewLocalSource([]string{root})
	ctx := context.Background()

	entries, err := src.ListChildren(ctx, root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible.txt", entries[0].Name)

	_, err = src.ListChildren(ctx, filepath.Join(root, "link"))
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = src.ReadFile(ctx, filepath.Join(root, "link", "id_rsa"))
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = src.ReadFile(ctx, filepath.Join(root, "key"))
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.False(t, src.IsPathAllowed(filepath.Join(root, "link", "id_rsa")))
}

func TestLocalSource_SymlinkInsideRootFollowed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real", "song.mp3"), 4)
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	src := NewLocalSource([]string{root})
	entries, err := src.ListChildren(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alias", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, filepath.Join(root, "alias"), entries[0].Handle)

	children, err := src.ListChildren(context.Background(), entries[0].Handle)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, filepath.Join(root, "alias", "song.mp3"), children[0].Handle)
}

func TestLocalSource_BrokenSymlinkSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kept.txt"), 1)
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	src := NewLocalSource([]string{root})
	entries, err := src.ListChildren(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept.txt", entries[0].Name)
}

func TestLocalSource_UnlimitedImportStopsAtSymlinkLoop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "f.txt"), 1)
	if err := os.Symlink(root, filepath.Join(root, "a", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	im := New(Options{MaxDepth: 0})
	im.Register("local", NewLocalSource([]string{root}))

	result, err := im.Import(context.Background(), "local", root)
	require.NoError(t, err)

	var names []string
	for _, r := range result.Records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"a", "loop", "f.txt"}, names)

	loop := result.Records[1]
	assert.True(t, loop.IsFolder())
	assert.NotContains(t, result.Listed, loop.ID)
	assert.Contains(t, result.Listed, result.Records[0].ID)
}
