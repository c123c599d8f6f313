package logging

import "fmt"

// Options selects and tunes a LogStore backend.
type Options struct {
	Backend    string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Open builds the store named by opts.Backend: "jsonl", "rotating" or
// "sqlite". An empty backend disables the run log and returns nil.
func Open(opts Options) (LogStore, error) {
	var (
		store LogStore
		err   error
	)
	switch opts.Backend {
	case "":
		return nil, nil
	case "jsonl":
		store, err = NewJSONLStore(opts.Path)
	case "rotating":
		store, err = NewRotatingJSONLStore(opts.Path, opts.MaxSizeMB, opts.MaxBackups, opts.MaxAgeDays)
	case "sqlite":
		store, err = NewSQLiteStore(opts.Path)
	default:
		return nil, fmt.Errorf("run log: unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
