package walker

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

// mkfile creates a file with content under dir, creating parents.
func mkfile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

// symlink creates a link or skips the test where links are unsupported.
func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
}

// relSorted returns the walk result relative to root, sorted.
func relSorted(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("rel %s: %v", f, err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestWalkNested verifies files at every depth are emitted.
func TestWalkNested(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "a.txt", "a")
	mkfile(t, root, "sub/b.txt", "b")
	mkfile(t, root, "sub/deeper/c.txt", "c")
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relSorted(t, root, files)
	want := []string{"a.txt", "sub/b.txt", "sub/deeper/c.txt"}
	if !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	for _, f := range files {
		if !filepath.IsAbs(f) {
			t.Errorf("expected absolute path, got %q", f)
		}
	}
}

// TestWalkEmptyDirectory verifies an empty root yields an empty, non-nil list.
func TestWalkEmptyDirectory(t *testing.T) {
	files, err := Walk(t.TempDir())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if files == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}

// TestWalkRootErrors verifies invalid roots fail before traversal.
func TestWalkRootErrors(t *testing.T) {
	dir := t.TempDir()
	file := mkfile(t, dir, "plain.txt", "x")

	tests := []struct {
		name    string
		root    string
		wantErr error
	}{
		{name: "empty root", root: "", wantErr: ErrEmptyRoot},
		{name: "missing root", root: filepath.Join(dir, "missing"), wantErr: os.ErrNotExist},
		{name: "file root", root: file, wantErr: ErrNotDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Walk(tt.root)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestWalkUnreadableDirectory verifies a directory that cannot be listed,
// the root included, aborts the walk.
func TestWalkUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 || runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced")
	}

	tests := []struct {
		name   string
		locked func(root string) string
	}{
		{name: "subdirectory", locked: func(root string) string { return filepath.Join(root, "locked") }},
		{name: "root", locked: func(root string) string { return root }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			mkfile(t, root, "a.txt", "a")
			mkfile(t, root, "locked/b.txt", "b")
			locked := tt.locked(root)
			if err := os.Chmod(locked, 0o000); err != nil {
				t.Fatalf("chmod: %v", err)
			}
			t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

			files, err := Walk(root)
			if !errors.Is(err, os.ErrPermission) {
				t.Fatalf("expected permission error, got %v", err)
			}
			if files != nil {
				t.Errorf("expected no files, got %v", files)
			}
		})
	}
}

// TestWalkDuplicateLinksLexical verifies that when several links in one
// directory reach the same file, the lexically first name is emitted.
func TestWalkDuplicateLinksLexical(t *testing.T) {
	outside := mkfile(t, t.TempDir(), "target.txt", "shared")
	root := t.TempDir()
	for _, name := range []string{"zz.lnk", "mm.lnk", "aa.lnk"} {
		symlink(t, outside, filepath.Join(root, name))
	}

	w := New(Options{Root: root})
	files, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relSorted(t, root, files)
	if len(got) != 1 || got[0] != "aa.lnk" {
		t.Errorf("expected [aa.lnk], got %v", got)
	}
	if w.Stats().Duplicates != 2 {
		t.Errorf("expected 2 duplicates, got %d", w.Stats().Duplicates)
	}
}

// TestWalkSymlinkCycle verifies a link back to an ancestor terminates and
// every real file is emitted once.
func TestWalkSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "top.txt", "top")
	mkfile(t, root, "sub/inner.txt", "inner")
	symlink(t, root, filepath.Join(root, "sub", "loop"))
	symlink(t, filepath.Join(root, "sub"), filepath.Join(root, "sub", "self"))

	w := New(Options{Root: root})
	files, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relSorted(t, root, files)
	want := []string{"sub/inner.txt", "top.txt"}
	if !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if w.Stats().Duplicates < 2 {
		t.Errorf("expected both links counted as duplicates, got %d", w.Stats().Duplicates)
	}
}

// TestWalkFileLinkedTwice verifies content reachable through several paths
// is emitted once under one of the paths it was found at.
func TestWalkFileLinkedTwice(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "data/real.txt", "payload")
	symlink(t, filepath.Join(root, "data", "real.txt"), filepath.Join(root, "alias.txt"))
	symlink(t, filepath.Join(root, "data"), filepath.Join(root, "mirror"))

	files, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one file, got %v", files)
	}

	got := relSorted(t, root, files)[0]
	switch got {
	case "data/real.txt", "alias.txt", "mirror/real.txt":
	default:
		t.Errorf("unexpected emitted path %q", got)
	}
}

// TestWalkLinkedDirectoryKeepsLinkPath verifies files under a linked
// directory are reported under the link, not the target.
func TestWalkLinkedDirectoryKeepsLinkPath(t *testing.T) {
	outside := t.TempDir()
	mkfile(t, outside, "ext.txt", "ext")

	root := t.TempDir()
	symlink(t, outside, filepath.Join(root, "linked"))

	files, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relSorted(t, root, files)
	want := []string{"linked/ext.txt"}
	if !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// TestWalkBrokenSymlink verifies a dangling link is skipped, not fatal.
func TestWalkBrokenSymlink(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "ok.txt", "ok")
	symlink(t, filepath.Join(root, "gone"), filepath.Join(root, "dangling"))

	var skipped []string
	w := New(Options{
		Root: root,
		OnSkip: func(path string, err error) {
			skipped = append(skipped, filepath.Base(path))
		},
	})
	files, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relSorted(t, root, files)
	if !equalStrings(got, []string{"ok.txt"}) {
		t.Errorf("got %v, want [ok.txt]", got)
	}
	if !equalStrings(skipped, []string{"dangling"}) {
		t.Errorf("expected dangling to be skipped, got %v", skipped)
	}
	if w.Stats().Skipped != 1 {
		t.Errorf("expected Skipped=1, got %d", w.Stats().Skipped)
	}
}

// TestWalkOnFile verifies the callback sees exactly the emitted paths.
func TestWalkOnFile(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "one.txt", "1")
	mkfile(t, root, "two/two.txt", "2")

	var seen []string
	w := New(Options{
		Root:   root,
		OnFile: func(path string) { seen = append(seen, path) },
	})
	files, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if !equalStrings(seen, files) {
		t.Errorf("callback saw %v, result %v", seen, files)
	}
	if w.Stats().Files != 2 {
		t.Errorf("expected Files=2, got %d", w.Stats().Files)
	}
	if w.Stats().Dirs != 2 {
		t.Errorf("expected Dirs=2, got %d", w.Stats().Dirs)
	}
}

// TestWalkFreshVisitedSet verifies separate walks do not share state.
func TestWalkFreshVisitedSet(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "f.txt", "f")

	for i := 0; i < 2; i++ {
		files, err := Walk(root)
		if err != nil {
			t.Fatalf("Walk %d: %v", i, err)
		}
		if len(files) != 1 {
			t.Errorf("walk %d: expected 1 file, got %d", i, len(files))
		}
	}
}
