package pathutil

import (
	"fmt"
	"time"
)

// Folder manages a set of named subfolders under a single root, typically a
// per-run output directory:
//
//	folder := pathutil.NewFolder("./checkpoint", pathutil.FolderOptions{Identify: true})
//	folder.AddChildren(map[string]string{"image": "images", "model": "models/weights"})
//	if err := folder.MkdirAll(); err != nil { ... }
//	dst := folder.Child("image").Join("sample.png")
type Folder struct {
	roots map[string]Path
	order []string
}

// FolderOptions configures NewFolder.
type FolderOptions struct {
	// Identify appends an identifier to the root so repeated runs get
	// distinct directories.
	Identify bool
	// Identifier overrides the generated identifier. Ignored unless
	// Identify is set. Defaults to the current local time.
	Identifier string
}

// identifierLayout names run folders by wall-clock time down to the second.
const identifierLayout = "2006.01.02.15.04.05"

// NewFolder returns a Folder rooted at root.
func NewFolder(root string, opts FolderOptions) *Folder {
	if opts.Identify {
		id := opts.Identifier
		if id == "" {
			id = time.Now().Format(identifierLayout)
		}
		root += "_" + id
	}
	f := &Folder{roots: map[string]Path{"root": Path(root)}}
	f.order = append(f.order, "root")
	return f
}

// Root returns the root path.
func (f *Folder) Root() Path {
	return f.roots["root"]
}

// AddChildren registers named subfolders, keyed by name with values relative
// to the root. Registering an existing name replaces it.
func (f *Folder) AddChildren(children map[string]string) {
	// Deterministic registration order for List.
	for _, name := range NaturalSort(keys(children), false) {
		if _, ok := f.roots[name]; !ok {
			f.order = append(f.order, name)
		}
		f.roots[name] = f.Root().Join(children[name])
	}
}

// Child returns the path registered under name. The root itself is "root".
func (f *Folder) Child(name string) (Path, error) {
	path, ok := f.roots[name]
	if !ok {
		return "", fmt.Errorf("pathutil: no folder named %q", name)
	}
	return path, nil
}

// MkdirAll creates the root and every registered subfolder.
func (f *Folder) MkdirAll() error {
	for _, name := range f.order {
		if err := f.roots[name].MkdirAll(); err != nil {
			return err
		}
	}
	return nil
}

// List returns all registered folders keyed by name, including "root".
func (f *Folder) List() map[string]Path {
	out := make(map[string]Path, len(f.roots))
	for name, path := range f.roots {
		out[name] = path
	}
	return out
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
