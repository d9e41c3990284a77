// Command goxq evaluates queries against XML documents and directory trees.
//
// Usage:
//
//	goxq query --db library.xml 'count(.//book)'
//	goxq query --db library.xml --index fulltext 'index("xml", "fulltext")'
//	goxq plan --db library.xml 'count((1, 2, 3))'
//
// Flags can also be set through GOXQ_<FLAG> environment variables (e.g. GOXQ_LOG_LEVEL=debug)
// or a configuration file passed with --config.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "goxq:", err)
		os.Exit(1)
	}
}
