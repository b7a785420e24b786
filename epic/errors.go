package epic

// Error is the closed set of failures reported by this package.
//
// Values are plain constants, so callers can compare with == or errors.Is.
type Error uint8

const (
	// ErrDisplayClosed: operation on a display handle that was closed.
	ErrDisplayClosed Error = iota + 1
	// ErrOutsideDisplay: a coordinate lies outside the logical screen.
	ErrOutsideDisplay
	// ErrDeviceOrResourceBusy: the firmware reported failure, including a
	// peripheral that is already locked by another owner.
	ErrDeviceOrResourceBusy
	// ErrFileNotFound: exec target does not exist.
	ErrFileNotFound
	// ErrFileNotInLoadableFormat: exec target exists but cannot be started.
	ErrFileNotInLoadableFormat
	// ErrUnknown: any other exec failure.
	ErrUnknown
)

func (e Error) Error() string {
	switch e {
	case ErrDisplayClosed:
		return "epic: display closed"
	case ErrOutsideDisplay:
		return "epic: coordinate outside display"
	case ErrDeviceOrResourceBusy:
		return "epic: device or resource busy"
	case ErrFileNotFound:
		return "epic: file not found"
	case ErrFileNotInLoadableFormat:
		return "epic: file not in loadable format"
	case ErrUnknown:
		return "epic: unknown error"
	default:
		return "epic: invalid error"
	}
}

// Error numbers as used by the firmware's C library (newlib). They match
// the Linux values for the codes the firmware returns.
const (
	ENOENT  = 2
	ENOEXEC = 8
	EBADF   = 9
	EBUSY   = 16
	ENODEV  = 19
	EINVAL  = 22
)

// statusError maps a display/stream status code to an error.
func statusError(status int) error {
	if status != 0 {
		return ErrDeviceOrResourceBusy
	}
	return nil
}

// execError maps the result of an exec call to an error.
func execError(status int) error {
	if status >= 0 {
		return nil
	}
	switch -status {
	case ENOENT:
		return ErrFileNotFound
	case ENOEXEC:
		return ErrFileNotInLoadableFormat
	default:
		return ErrUnknown
	}
}
