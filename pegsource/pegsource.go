// Package pegsource loads and saves grammar SOURCE TEXT — never a parse
// tree or a packrat cache, which stay ephemeral to a single Parse/Match
// call. It exists to support the round-trip property: write
// (*peg.Grammar).String() out, read it back, recompile, and compare rule
// sets.
//
// A "memfs:///" prefix hijacks the call to an in-memory filesystem, so
// tests can exercise the read/write path hermetically without touching
// disk.
package pegsource

import (
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/golang/leveldb/db"
	"github.com/golang/leveldb/memfs"
)

const memPrefix = "memfs:///"

var (
	once  sync.Once
	memFS db.FileSystem
)

func sharedMemFS() db.FileSystem {
	once.Do(func() { memFS = memfs.New() })
	return memFS
}

// ReadGrammarSource reads a grammar source file, either from the real
// filesystem or, for a "memfs:///"-prefixed path, from a process-wide
// in-memory filesystem.
func ReadGrammarSource(uri string) (string, error) {
	if rest, ok := strings.CutPrefix(uri, memPrefix); ok {
		fs := sharedMemFS()
		filename := "/" + rest
		fi, err := fs.Stat(filename)
		if err != nil {
			return "", fmt.Errorf("pegsource: stat %s: %w", uri, err)
		}
		f, err := fs.Open(filename)
		if err != nil {
			return "", fmt.Errorf("pegsource: open %s: %w", uri, err)
		}
		defer f.Close()
		buf := make([]byte, fi.Size())
		n, err := f.Read(buf)
		if err != nil {
			return "", fmt.Errorf("pegsource: read %s: %w", uri, err)
		}
		return string(buf[:n]), nil
	}
	buf, err := os.ReadFile(uri)
	if err != nil {
		return "", fmt.Errorf("pegsource: read %s: %w", uri, err)
	}
	return string(buf), nil
}

// WriteGrammarSource writes source to uri, through the same memfs hijack
// ReadGrammarSource uses.
func WriteGrammarSource(uri, source string) error {
	if rest, ok := strings.CutPrefix(uri, memPrefix); ok {
		fs := sharedMemFS()
		filename := "/" + rest
		if err := fs.MkdirAll(path.Dir(filename), 0770); err != nil {
			return fmt.Errorf("pegsource: mkdir for %s: %w", uri, err)
		}
		f, err := fs.Create(filename)
		if err != nil {
			return fmt.Errorf("pegsource: create %s: %w", uri, err)
		}
		defer f.Close()
		if _, err := f.Write([]byte(source)); err != nil {
			return fmt.Errorf("pegsource: write %s: %w", uri, err)
		}
		return nil
	}
	if err := os.WriteFile(uri, []byte(source), 0664); err != nil {
		return fmt.Errorf("pegsource: write %s: %w", uri, err)
	}
	return nil
}
