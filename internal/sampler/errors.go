package sampler

// executableNotFoundError signals a missing compiled sampler binary.
type executableNotFoundError struct{ path string }

func (e executableNotFoundError) Error() string { return "sampler executable not found: " + e.path }

// ErrExecutableNotFound constructs an executableNotFoundError.
func ErrExecutableNotFound(path string) error { return executableNotFoundError{path: path} }

// IsExecutableNotFound reports whether err indicates a missing sampler binary.
func IsExecutableNotFound(err error) bool {
	_, ok := err.(executableNotFoundError)
	return ok
}

// resumeUnavailableError signals a resume request with no resume snapshot
// on disk.
type resumeUnavailableError struct{ path string }

func (e resumeUnavailableError) Error() string { return "resume snapshot not found: " + e.path }

// ErrResumeUnavailable constructs a resumeUnavailableError.
func ErrResumeUnavailable(path string) error { return resumeUnavailableError{path: path} }

// IsResumeUnavailable reports whether err indicates a missing resume snapshot.
func IsResumeUnavailable(err error) bool {
	_, ok := err.(resumeUnavailableError)
	return ok
}
