package memdb

import (
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/sandrolain/goxq/pkg/storage"
)

const (
	elemDir  = "dir"
	elemFile = "file"
	attrName = "name"
	attrSize = "size"
)

// FromFS builds a filesystem-backed database from the tree rooted at root in fsys. Directories
// become dir elements and regular files become file elements, both carrying name and size
// attributes. base is the path reported by FSPath for the document node, usually the directory the
// tree was read from.
func FromFS(name string, fsys fs.FS, root, base string, opts ...Option) (*DB, error) {
	b := newBuilder(name, opts)
	b.db.meta.Filesystem = true
	b.db.base = base
	if _, err := b.walk(fsys, root, path.Base(root)); err != nil {
		return nil, err
	}
	return b.finish(), nil
}

// walk adds the directory dir and returns the total size of the regular files below it.
func (b *builder) walk(fsys fs.FS, dir, label string) (int64, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0, err
	}
	b.open(storage.KindElement, elemDir)
	if dir != "." {
		b.attribute(attrName, label)
	}
	// The size is known only after the subtree is read; the row is filled in below.
	b.attribute(attrSize, "")
	sizePre := len(b.db.rows) - 1
	var total int64
	for _, e := range entries {
		if e.IsDir() {
			n, err := b.walk(fsys, path.Join(dir, e.Name()), e.Name())
			if err != nil {
				return 0, err
			}
			total += n
			continue
		}
		info, err := e.Info()
		if err != nil {
			return 0, err
		}
		if !info.Mode().IsRegular() {
			continue
		}
		b.open(storage.KindElement, elemFile)
		b.attribute(attrName, e.Name())
		b.attribute(attrSize, strconv.FormatInt(info.Size(), 10))
		b.close()
		total += info.Size()
	}
	size := strconv.FormatInt(total, 10)
	b.db.rows[sizePre].text = []byte(size)
	if b.db.attrVals != nil {
		trieAdd(b.db.attrVals, size, sizePre)
	}
	b.close()
	return total, nil
}

func joinPath(base, elem string) string {
	if base == "" {
		return elem
	}
	if strings.HasSuffix(base, "/") {
		return base + elem
	}
	return base + "/" + elem
}
