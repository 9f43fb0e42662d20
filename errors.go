package pixel

import "github.com/gogpu/pixel/internal/errs"

// Error classes returned by pixel operations. Every error an operator
// returns wraps exactly one of these; test with errors.Is.
var (
	// ErrArgumentKind reports a parameter of the wrong runtime kind, such
	// as a NaN where a finite number is required or a kernel given as an
	// unsupported type. It is always detected before any sample changes.
	ErrArgumentKind = errs.ErrArgumentKind

	// ErrArgumentValue reports a parameter whose kind is right but whose
	// value is outside the accepted domain: a non-positive size, an
	// unknown enumerated name, malformed geometry or kernel text.
	ErrArgumentValue = errs.ErrArgumentValue

	// ErrRange reports a coordinate or rectangle outside buffer bounds.
	ErrRange = errs.ErrRange

	// ErrCapabilityUnavailable reports that an optional delegate is not
	// configured. It is recoverable: callers can fall back or skip.
	ErrCapabilityUnavailable = errs.ErrCapabilityUnavailable

	// ErrOperationFailed reports a numeric operation that rejected its
	// input, for example a division by zero inside an Fx expression.
	ErrOperationFailed = errs.ErrOperationFailed
)
