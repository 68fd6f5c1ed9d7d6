package bid

import "errors"

// ErrProjectStoreMissing indicates the bid store was built without a reachable project store.
var ErrProjectStoreMissing = errors.New("project store handle required")
