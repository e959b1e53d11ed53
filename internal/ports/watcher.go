package ports

// Watcher monitors a catalog directory and reports changed catalog files.
// The adapter (fsnotify) filters out editor temp files and anything that does
// not match its include glob before invoking onChange. Only one Watch call
// should be active at a time.
type Watcher interface {
	// Watch starts monitoring dir. onChange is called with the path of each
	// changed catalog file. The callback may be invoked from any goroutine.
	// Returns an error if the directory doesn't exist or permissions are
	// insufficient.
	Watch(dir string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
