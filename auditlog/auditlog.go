// Package auditlog writes append-only, line-delimited JSON records. Each
// append opens the file, writes one line and closes it again; concurrent
// writers rely on OS-level append semantics rather than explicit locking.
package auditlog

import (
	"encoding/json"
	"os"
)

type Log struct {
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

func (l *Log) Path() string {
	return l.path
}

// Append marshals v and writes it as a single line. Records are never
// mutated or deleted once written.
func (l *Log) Append(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}
