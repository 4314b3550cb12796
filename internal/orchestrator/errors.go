package orchestrator

// unknownSettingError signals a configuration key outside the recognized
// set. It is a caller contract violation and is raised before any file is
// touched.
type unknownSettingError struct{ key string }

func (e unknownSettingError) Error() string { return "unknown setting: " + e.key }

// ErrUnknownSetting constructs an unknownSettingError.
func ErrUnknownSetting(key string) error { return unknownSettingError{key: key} }

// IsUnknownSetting reports whether err indicates an unrecognized
// configuration key.
func IsUnknownSetting(err error) bool {
	_, ok := err.(unknownSettingError)
	return ok
}

// badSettingValueError signals a recognized key carrying a value of the
// wrong type.
type badSettingValueError struct {
	key string
	msg string
}

func (e badSettingValueError) Error() string { return "setting " + e.key + ": " + e.msg }

// ErrBadSettingValue constructs a badSettingValueError.
func ErrBadSettingValue(key, msg string) error { return badSettingValueError{key: key, msg: msg} }

// IsBadSettingValue reports whether err indicates a mistyped setting value.
func IsBadSettingValue(err error) bool {
	_, ok := err.(badSettingValueError)
	return ok
}
