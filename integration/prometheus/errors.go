package prometheus

import "errors"

// ErrRegister is returned when a collector cannot be registered.
var ErrRegister = errors.New("prometheus: failed to register collector")
