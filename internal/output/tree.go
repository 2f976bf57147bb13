package output

import (
	"maps"
	"slices"
	"strings"
)

// Branch glyphs of a rendered tree.
const (
	branchMid  = "├── "
	branchEnd  = "└── "
	indentOpen = "│   "
	indentDone = "    "
)

// descriptionColumn is where file descriptions start when the name fits.
const descriptionColumn = 36

// dirEntry is one directory of a listing: its subdirectories and its files
// mapped to their descriptions.
type dirEntry struct {
	dirs  map[string]*dirEntry
	files map[string]string
}

func newDirEntry() *dirEntry {
	return &dirEntry{dirs: map[string]*dirEntry{}, files: map[string]string{}}
}

// add places the file at the slash-separated path rel below d.
func (d *dirEntry) add(rel, desc string) {
	dir, name, nested := strings.Cut(rel, "/")
	if !nested {
		d.files[dir] = desc
		return
	}
	sub, ok := d.dirs[dir]
	if !ok {
		sub = newDirEntry()
		d.dirs[dir] = sub
	}
	sub.add(name, desc)
}

// FileTree lists files below a root directory named rootName. Files maps
// slash-separated paths to a description, which may be empty. Each
// directory lists its subdirectories before its files, both by name.
func (f *Formatter) FileTree(rootName string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	root := newDirEntry()
	for rel, desc := range files {
		root.add(strings.TrimPrefix(rel, "./"), desc)
	}

	var sb strings.Builder
	sb.WriteString(f.Bold(rootName + "/"))
	sb.WriteByte('\n')
	f.writeDir(&sb, root, "")
	return sb.String()
}

func (f *Formatter) writeDir(sb *strings.Builder, d *dirEntry, indent string) {
	dirNames := slices.Sorted(maps.Keys(d.dirs))
	fileNames := slices.Sorted(maps.Keys(d.files))
	remaining := len(dirNames) + len(fileNames)

	branch := func() (string, string) {
		remaining--
		if remaining == 0 {
			return branchEnd, indent + indentDone
		}
		return branchMid, indent + indentOpen
	}

	for _, name := range dirNames {
		glyph, next := branch()
		sb.WriteString(indent + glyph + name + "/\n")
		f.writeDir(sb, d.dirs[name], next)
	}
	for _, name := range fileNames {
		glyph, _ := branch()
		line := indent + glyph + name
		if desc := d.files[name]; desc != "" {
			line += strings.Repeat(" ", max(2, descriptionColumn-len(line))) + f.Muted(desc)
		}
		sb.WriteString(line + "\n")
	}
}
