package synptr

import "errors"

var (
	ErrInvalidConfig     = errors.New("synptr: invalid config")
	ErrSegmentsExhausted = errors.New("synptr: no segment left for allocation")
	ErrNotConvertible    = errors.New("synptr: element types are not convertible")
	ErrMisaligned        = errors.New("synptr: address is misaligned for element type")
	ErrNilHandle         = errors.New("synptr: nil handle")
	ErrNegativeCount     = errors.New("synptr: negative element count")
)
