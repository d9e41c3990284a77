package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandrolain/goxq/pkg/storage/memdb"
)

// indexOptions maps --index values to database build options.
var indexOptions = map[string]memdb.Option{
	"text":      memdb.WithTextIndex(),
	"attribute": memdb.WithAttributeIndex(),
	"fulltext":  memdb.WithFullTextIndex(),
	"all":       memdb.WithAllIndexes(),
}

func buildOptions(indexes []string, whitespace bool) ([]memdb.Option, error) {
	var opts []memdb.Option
	for _, ix := range indexes {
		opt, ok := indexOptions[strings.ToLower(strings.TrimSpace(ix))]
		if !ok {
			return nil, fmt.Errorf("unknown index %q (expected text, attribute, fulltext or all)", ix)
		}
		opts = append(opts, opt)
	}
	if whitespace {
		opts = append(opts, memdb.WithWhitespace())
	}
	return opts, nil
}

// loadDatabase builds a database from an XML file or a directory tree. The database is named
// after the file without extension, or after the directory. A "name=path" argument sets the
// name explicitly.
func loadDatabase(arg string, opts []memdb.Option) (*memdb.DB, error) {
	name, path, ok := strings.Cut(arg, "=")
	if !ok {
		path = arg
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		return memdb.FromFS(name, os.DirFS(path), ".", filepath.ToSlash(abs), opts...)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	db, err := memdb.Parse(name, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}
