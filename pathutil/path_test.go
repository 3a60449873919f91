package pathutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestPathParts(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.ckpt.pt")
	writeFile(t, file)

	p := Path(file)
	if got := p.Name(); got != "model.ckpt.pt" {
		t.Errorf("Name = %q", got)
	}
	if got := p.Stem(); got != "model.ckpt" {
		t.Errorf("Stem = %q", got)
	}
	if got := p.Suffix(); got != ".pt" {
		t.Errorf("Suffix = %q", got)
	}
	if got := p.Dir(); got != Path(dir) {
		t.Errorf("Dir = %q", got)
	}

	// Name is empty for directories, mirroring "no file name" semantics.
	if got := Path(dir).Name(); got != "" {
		t.Errorf("Name of dir = %q, want empty", got)
	}
}

func TestPathJoin(t *testing.T) {
	p := Path("a").Join("b", "c")
	if p != Path(filepath.Join("a", "b", "c")) {
		t.Errorf("Join = %q", p)
	}
}

func TestPathChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	writeFile(t, file)

	tests := []struct {
		name   string
		path   Path
		exists bool
		isDir  bool
		isFile bool
	}{
		{name: "directory", path: Path(dir), exists: true, isDir: true},
		{name: "file", path: Path(file), exists: true, isFile: true},
		{name: "missing", path: Path(filepath.Join(dir, "nope"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.Exists(); got != tt.exists {
				t.Errorf("Exists = %v, want %v", got, tt.exists)
			}
			if got := tt.path.IsDir(); got != tt.isDir {
				t.Errorf("IsDir = %v, want %v", got, tt.isDir)
			}
			if got := tt.path.IsFile(); got != tt.isFile {
				t.Errorf("IsFile = %v, want %v", got, tt.isFile)
			}
		})
	}
}

func TestMkdirAll(t *testing.T) {
	p := Path(t.TempDir()).Join("a", "b", "c")
	if err := p.MkdirAll(); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if !p.IsDir() {
		t.Error("directory was not created")
	}
	// Second call is a no-op.
	if err := p.MkdirAll(); err != nil {
		t.Fatalf("repeated MkdirAll failed: %v", err)
	}
}

func TestExpandUser(t *testing.T) {
	home := string(Home())
	if home == "" {
		t.Skip("no home directory")
	}

	if got := Path("~/x").ExpandUser(); got != Path(filepath.Join(home, "x")) {
		t.Errorf("ExpandUser = %q", got)
	}
	if got := Path("~").ExpandUser(); got != Path(home) {
		t.Errorf("ExpandUser(~) = %q", got)
	}
	// Paths without a leading ~ are unchanged.
	if got := Path("/etc/hosts").ExpandUser(); got != Path("/etc/hosts") {
		t.Errorf("ExpandUser(/etc/hosts) = %q", got)
	}
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"))
	writeFile(t, filepath.Join(dir, "b.json"))
	writeFile(t, filepath.Join(dir, "sub", "c.txt"))

	t.Run("flat", func(t *testing.T) {
		paths, err := Path(dir).Glob(GlobOptions{Pattern: "*.txt"})
		if err != nil {
			t.Fatalf("Glob failed: %v", err)
		}
		if len(paths) != 1 || paths[0].Base() != "a.txt" {
			t.Errorf("paths = %v", paths)
		}
	})

	t.Run("recursive", func(t *testing.T) {
		paths, err := Path(dir).Glob(GlobOptions{Pattern: "*.txt", Recursive: true, Sort: true})
		if err != nil {
			t.Fatalf("Glob failed: %v", err)
		}
		if len(paths) != 2 {
			t.Fatalf("paths = %v, want 2 entries", paths)
		}
		if paths[0].Base() != "a.txt" || paths[1].Base() != "c.txt" {
			t.Errorf("paths = %v", paths)
		}
	})

	t.Run("filter", func(t *testing.T) {
		paths, err := Path(dir).Glob(GlobOptions{
			Recursive: true,
			Filter:    func(p Path) bool { return strings.HasSuffix(string(p), ".json") },
		})
		if err != nil {
			t.Fatalf("Glob failed: %v", err)
		}
		if len(paths) != 1 || paths[0].Base() != "b.json" {
			t.Errorf("paths = %v", paths)
		}
	})
}

func TestCheckFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new")

	exists, err := CheckFolder(dir, false)
	if err != nil {
		t.Fatalf("CheckFolder failed: %v", err)
	}
	if exists {
		t.Error("reported a missing folder as existing")
	}

	exists, err = CheckFolder(dir, true)
	if err != nil {
		t.Fatalf("CheckFolder with make failed: %v", err)
	}
	if exists {
		t.Error("first make call should report the folder as previously missing")
	}
	if !Path(dir).IsDir() {
		t.Error("folder was not created")
	}

	exists, err = CheckFolder(dir, false)
	if err != nil {
		t.Fatalf("CheckFolder failed: %v", err)
	}
	if !exists {
		t.Error("created folder not reported as existing")
	}
}

func TestNaturalSort(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		reverse bool
		want    []string
	}{
		{
			name:  "numeric order",
			input: []string{"step10", "step2", "step1"},
			want:  []string{"step1", "step2", "step10"},
		},
		{
			name:  "checkpoint files",
			input: []string{"ckpt-100.pt", "ckpt-20.pt", "ckpt-3.pt"},
			want:  []string{"ckpt-3.pt", "ckpt-20.pt", "ckpt-100.pt"},
		},
		{
			name:  "plain strings",
			input: []string{"b", "a", "c"},
			want:  []string{"a", "b", "c"},
		},
		{
			name:    "reverse",
			input:   []string{"e1", "e3", "e2"},
			reverse: true,
			want:    []string{"e3", "e2", "e1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NaturalSort(tt.input, tt.reverse)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("NaturalSort = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFolder(t *testing.T) {
	root := filepath.Join(t.TempDir(), "run")
	folder := NewFolder(root, FolderOptions{})
	folder.AddChildren(map[string]string{
		"image": "images",
		"model": filepath.Join("models", "weights"),
	})

	if folder.Root() != Path(root) {
		t.Errorf("Root = %q", folder.Root())
	}

	image, err := folder.Child("image")
	if err != nil {
		t.Fatalf("Child failed: %v", err)
	}
	if image != Path(root).Join("images") {
		t.Errorf("image = %q", image)
	}

	if _, err := folder.Child("nope"); err == nil {
		t.Error("expected error for unknown child")
	}

	if err := folder.MkdirAll(); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for name, path := range folder.List() {
		if !path.IsDir() {
			t.Errorf("folder %q was not created at %s", name, path)
		}
	}
}

func TestFolderIdentify(t *testing.T) {
	folder := NewFolder("run", FolderOptions{Identify: true, Identifier: "v1"})
	if folder.Root() != Path("run_v1") {
		t.Errorf("Root = %q, want run_v1", folder.Root())
	}

	// Generated identifiers make distinct roots.
	auto := NewFolder("run", FolderOptions{Identify: true})
	if auto.Root() == Path("run") {
		t.Error("Identify did not append an identifier")
	}
}
