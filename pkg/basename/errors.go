package basename

import "errors"

// ErrExhausted is returned by Commit when every candidate, fallback included,
// was already taken.
var ErrExhausted = errors.New("no free base name")
