package calendar

import "errors"

// ErrZeroPageSize indicates the page size heuristic produced zero, which
// would make the page index divisions degenerate. Not reachable for valid
// ascending inputs; kept as an invariant check.
var ErrZeroPageSize = errors.New("page size cannot be zero")
