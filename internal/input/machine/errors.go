package machine

import "errors"

// ErrInvalidArgument indicates a rejected setter argument. The machine's
// state is unchanged when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")
