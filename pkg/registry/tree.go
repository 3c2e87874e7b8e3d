package registry

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Tree is an index of repository paths used to resolve code refs.
type Tree struct {
	files map[string]struct{}
	dirs  map[string]struct{}
	all   []string
}

// NewTree indexes file paths. Parent directories are derived from the file
// paths; extra explicit directories may be passed in dirs.
func NewTree(files, dirs []string) *Tree {
	t := &Tree{
		files: make(map[string]struct{}, len(files)),
		dirs:  make(map[string]struct{}),
	}
	for _, f := range files {
		f = cleanRef(f)
		if f == "" {
			continue
		}
		t.files[f] = struct{}{}
		t.all = append(t.all, f)
		for d := path.Dir(f); d != "." && d != "/"; d = path.Dir(d) {
			t.dirs[d] = struct{}{}
		}
	}
	for _, d := range dirs {
		if d = cleanRef(d); d != "" {
			t.dirs[d] = struct{}{}
		}
	}
	return t
}

// Len returns the number of indexed files.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.files)
}

// Resolve reports whether ref names an existing file, a directory, or a glob
// matching at least one file.
func (t *Tree) Resolve(ref string) bool {
	if t == nil {
		return false
	}
	ref = cleanRef(ref)
	if ref == "" {
		return false
	}
	if hasMeta(ref) {
		for _, f := range t.all {
			if ok, err := doublestar.Match(ref, f); err == nil && ok {
				return true
			}
		}
		return false
	}
	if _, ok := t.files[ref]; ok {
		return true
	}
	_, ok := t.dirs[ref]
	return ok
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// cleanRef normalizes a ref to a slash-separated repository-relative path.
// A trailing "#L10" style anchor is dropped.
func cleanRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.Index(ref, "#"); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.TrimPrefix(ref, "./")
	ref = strings.Trim(ref, "/")
	if ref == "" {
		return ""
	}
	if !hasMeta(ref) {
		ref = path.Clean(ref)
	}
	return ref
}
