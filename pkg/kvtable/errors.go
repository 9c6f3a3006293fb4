package kvtable

import "errors"

// ErrNotFound is returned by Get when key has never been written to table.
var ErrNotFound = errors.New("kvtable: key not found")
