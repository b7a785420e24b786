package hal

import (
	"bytes"
	"runtime"
	"sort"
	"strings"
	"sync"

	"card10/epic"
)

// FileKind is what an installed path holds.
type FileKind uint8

const (
	// FileELF is a native payload (l0dable). The only kind the simulator
	// can start.
	FileELF FileKind = iota + 1
	FilePython
	FileModule
	FileData
)

func (k FileKind) String() string {
	switch k {
	case FileELF:
		return "elf"
	case FilePython:
		return "py"
	case FileModule:
		return "dir"
	case FileData:
		return "data"
	default:
		return "unknown"
	}
}

// ParseFileKind is the inverse of FileKind.String.
func ParseFileKind(s string) (FileKind, bool) {
	switch strings.ToLower(s) {
	case "elf":
		return FileELF, true
	case "py":
		return FilePython, true
	case "dir":
		return FileModule, true
	case "data":
		return FileData, true
	}
	return 0, false
}

// Handoff is how a payload ended.
type Handoff struct {
	// Exec is the path the payload asked to start; empty after an exit.
	Exec string
	// Code is the exit code. Only meaningful when Exec is empty.
	Code int
}

// Loader simulates the firmware's payload loader on a virtual file table.
//
// Exit and a successful Exec record a hand-off and end the calling
// goroutine with runtime.Goexit, so the payload's deferred releases run
// and control never comes back to it. Payloads must therefore run on a
// goroutine of their own.
type Loader struct {
	mu      sync.Mutex
	files   map[string]FileKind
	pending *Handoff
	log     Logger
}

func newLoader(log Logger) *Loader {
	return &Loader{files: make(map[string]FileKind), log: log}
}

// Install adds path to the file table.
func (l *Loader) Install(path string, kind FileKind) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files[path] = kind
}

func (l *Loader) Remove(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.files, path)
}

// Lookup returns the kind installed at path.
func (l *Loader) Lookup(path string) (FileKind, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k, ok := l.files[path]
	return k, ok
}

// Paths lists installed paths with the given prefix, sorted.
func (l *Loader) Paths(prefix string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for p := range l.files {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// TakeHandoff returns and clears the pending hand-off.
func (l *Loader) TakeHandoff() (Handoff, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == nil {
		return Handoff{}, false
	}
	h := *l.pending
	l.pending = nil
	return h, true
}

func (l *Loader) check(name []byte) (string, int) {
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	path := string(name)

	l.mu.Lock()
	defer l.mu.Unlock()
	kind, ok := l.files[path]
	if !ok {
		return path, -epic.ENOENT
	}
	if kind != FileELF {
		logf(l.log, "exec: %s: no %s interpreter in the simulator", path, kind)
		return path, -epic.ENOEXEC
	}
	return path, 0
}

func (l *Loader) exec(name []byte) int {
	path, res := l.check(name)
	if res != 0 {
		return res
	}
	l.handoff(Handoff{Exec: path})
	runtime.Goexit()
	return 0
}

func (l *Loader) exit(code int) {
	l.handoff(Handoff{Code: code})
	runtime.Goexit()
}

func (l *Loader) handoff(h Handoff) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = &h
}
