package evaluator

import (
	"math/rand/v2"

	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// fnRead returns the text content of a resource.
func fnRead(qc *QueryContext, f *FunCall) (value.Item, error) {
	loc, err := f.strArg(qc, 0)
	if err != nil {
		return nil, err
	}
	s, err := fetch(qc, loc, f.pos)
	if err != nil {
		return nil, err
	}
	return value.Str(s), nil
}

func fetch(qc *QueryContext, loc string, pos int) (string, error) {
	s, err := qc.ev.opts.Fetcher.Fetch(qc.ctx, loc)
	if err != nil {
		return "", types.Errorf(types.ErrResource, pos, "resource %q could not be read: %v", loc, err).WithCause(err)
	}
	return s, nil
}

// fnEval evaluates a query string in a nested context.
func fnEval(qc *QueryContext, f *FunCall) (value.Iter, error) {
	query, err := f.strArg(qc, 0)
	if err != nil {
		return nil, err
	}
	v, err := qc.Nested(query)
	if err != nil {
		return nil, err
	}
	return value.IterOf(v), nil
}

// fnRun evaluates the query stored in a resource in a nested context.
func fnRun(qc *QueryContext, f *FunCall) (value.Iter, error) {
	loc, err := f.strArg(qc, 0)
	if err != nil {
		return nil, err
	}
	query, err := fetch(qc, loc, f.pos)
	if err != nil {
		return nil, err
	}
	v, err := qc.Nested(query)
	if err != nil {
		return nil, err
	}
	return value.IterOf(v), nil
}

func fnRandom(*QueryContext, *FunCall) (value.Item, error) {
	return value.Dbl(rand.Float64()), nil
}

// fnDB returns the document node of a database, or the node at the given pre value.
func fnDB(qc *QueryContext, f *FunCall) (value.Item, error) {
	name, err := f.strArg(qc, 0)
	if err != nil {
		return nil, err
	}
	data, err := qc.openDB(name, f.pos)
	if err != nil {
		return nil, err
	}
	if len(f.args) == 1 {
		return value.NewDBNode(data, 0), nil
	}
	pre, err := f.intArg(qc, 1)
	if err != nil {
		return nil, err
	}
	if pre < 0 || pre >= int64(data.Size()) {
		return nil, types.Errorf(types.ErrNodeOutOfRange, f.args[1].Position(),
			"node %d out of range [0, %d) in database %q", pre, data.Size(), name)
	}
	return value.NewDBNode(data, int(pre)), nil
}

// fnNodeID returns the stable id of a database node.
func fnNodeID(qc *QueryContext, f *FunCall) (value.Item, error) {
	n, err := dbNodeArg(qc, f, f.args[0])
	if err != nil {
		return nil, err
	}
	if err := n.Materialize(); err != nil {
		return nil, err
	}
	return value.Int(n.Data().ID(n.Pre())), nil
}

// fnFSPath joins the filesystem paths of the given nodes with newlines. Nodes of databases
// without a filesystem mapping contribute nothing.
func fnFSPath(qc *QueryContext, f *FunCall) (value.Item, error) {
	it, err := f.args[0].Iter(qc)
	if err != nil {
		return nil, err
	}
	buf := acquireBuf()
	defer releaseBuf(buf)
	first := true
	for {
		item, err := it.Next()
		if err != nil {
			return nil, err
		}
		if item == nil {
			break
		}
		n, ok := item.(*value.DBNode)
		if !ok {
			return nil, types.Errorf(types.ErrType, f.args[0].Position(),
				"fs-path: database node expected, %s found", item.Type())
		}
		if !n.Data().Meta().Filesystem {
			continue
		}
		path, ok := n.Data().FSPath(n.Pre())
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte('\n')
		}
		first = false
		buf.WriteString(path)
	}
	return value.Str(buf.String()), nil
}

// dbNodeArg evaluates e to a single database node.
func dbNodeArg(qc *QueryContext, f *FunCall, e Expr) (*value.DBNode, error) {
	item, err := e.Item(qc)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, types.Errorf(types.ErrType, e.Position(), "%s: node expected, empty sequence found", f.def.Name)
	}
	n, ok := item.(*value.DBNode)
	if !ok {
		return nil, types.Errorf(types.ErrType, e.Position(), "%s: database node expected, %s found", f.def.Name, item.Type())
	}
	return n, nil
}
