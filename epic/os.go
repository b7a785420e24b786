package epic

// Exit ends the running payload and returns to the menu. code follows
// POSIX conventions, 0 for success.
//
// Exit does not return.
func Exit(code int) {
	MustFirmware().Exit(code)
	panic("epic: firmware returned from exit")
}

// Exec stops the running payload and starts the one at path:
//   - an .elf file (l0dable)
//   - a .py file, run by the Python interpreter
//   - a directory, treated as a Python module started from __init__.py
//
// On success Exec does not return. Failures are ErrFileNotFound,
// ErrFileNotInLoadableFormat and ErrUnknown.
func Exec(path string) error {
	return execError(MustFirmware().Exec(NullTerminated(path)))
}
