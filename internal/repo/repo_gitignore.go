// repo_gitignore.go tracks which item stores are local. A local store is
// listed in .blockd/.gitignore under localHeader; every other store is
// committed with the project.

package repo

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const localHeader = "# Local databases (not committed)"

// ignoreFile is .blockd/.gitignore split into lines. Lines outside the
// database entries are written back untouched.
type ignoreFile struct {
	path  string
	lines []string
}

func loadIgnore(dir string) (*ignoreFile, error) {
	if dir == "" {
		var err error
		if dir, err = DiscoverDir(); err != nil {
			return nil, err
		}
	}
	f := &ignoreFile{path: filepath.Join(dir, ".gitignore")}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	f.lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	return f, nil
}

func (f *ignoreFile) has(entry string) bool {
	return slices.ContainsFunc(f.lines, func(l string) bool {
		return strings.TrimSpace(l) == entry
	})
}

func (f *ignoreFile) add(entry string) {
	if !f.has(localHeader) {
		f.lines = append(f.lines, "", localHeader)
	}
	f.lines = append(f.lines, entry)
}

// remove drops entry, and the header once no database is listed under it.
func (f *ignoreFile) remove(entry string) {
	f.lines = slices.DeleteFunc(f.lines, func(l string) bool {
		return strings.TrimSpace(l) == entry
	})
	h := slices.Index(f.lines, localHeader)
	if h < 0 {
		return
	}
	if slices.ContainsFunc(f.lines[h+1:], func(l string) bool { return strings.HasSuffix(strings.TrimSpace(l), ".db") }) {
		return
	}
	f.lines = f.lines[:h]
	for len(f.lines) > 0 && strings.TrimSpace(f.lines[len(f.lines)-1]) == "" {
		f.lines = f.lines[:len(f.lines)-1]
	}
}

func (f *ignoreFile) save() error {
	return os.WriteFile(f.path, []byte(strings.Join(f.lines, "\n")+"\n"), 0o644)
}

// IgnoreDB marks store name as local. An empty dir is discovered from the
// working directory.
func IgnoreDB(name, dir string) error {
	f, err := loadIgnore(dir)
	if err != nil {
		return err
	}
	entry := DBFileName(name)
	if f.has(entry) {
		return nil
	}
	f.add(entry)
	return f.save()
}

// UnignoreDB marks store name as shared.
func UnignoreDB(name, dir string) error {
	f, err := loadIgnore(dir)
	if err != nil {
		return err
	}
	f.remove(DBFileName(name))
	return f.save()
}

// IsIgnored reports whether store name is local.
func IsIgnored(name, dir string) (bool, error) {
	f, err := loadIgnore(dir)
	if err != nil {
		return false, err
	}
	return f.has(DBFileName(name)), nil
}
