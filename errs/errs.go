// Package errs defines the sentinel errors returned across the pod packages.
//
// Errors are matched with errors.Is. Call sites add context by wrapping:
//
//	return fmt.Errorf("%w: array child size %d, got %d", errs.ErrTypeMismatch, want, got)
package errs

import "errors"

// Value format errors.
var (
	// ErrOverflow is returned when a builder runs out of buffer space and has no
	// way to grow. Growing the buffer and building again recovers.
	ErrOverflow = errors.New("pod: buffer overflow")
	// ErrTypeMismatch is returned when a value's type disagrees with the
	// requested accessor or with the child type of an array or choice.
	ErrTypeMismatch = errors.New("pod: type mismatch")
	// ErrTruncated is returned when a declared size extends past the available
	// bytes, or when a frame is popped before its declared bytes are consumed.
	ErrTruncated = errors.New("pod: truncated value")
	// ErrOverrun is returned when more bytes were consumed than a frame declared.
	ErrOverrun = errors.New("pod: frame overrun")
	// ErrNoCommonValue is returned when a filter intersection is empty.
	ErrNoCommonValue = errors.New("pod: no common value")
	// ErrInvalidFrame is returned on frame stack misuse, such as popping an
	// empty stack or writing a property outside an object.
	ErrInvalidFrame = errors.New("pod: invalid frame")
	// ErrMalformed is returned for structurally invalid values: misaligned
	// children, choices with the wrong number of alternatives, strings
	// without a terminating NUL.
	ErrMalformed = errors.New("pod: malformed value")
	// ErrNotFound is returned when a property or key lookup has no match.
	ErrNotFound = errors.New("pod: not found")
	// ErrInvalidOption is returned when an option is given an unusable argument.
	ErrInvalidOption = errors.New("pod: invalid option")
	// ErrDuplicate is returned when a value equal to one already tracked is
	// tracked again.
	ErrDuplicate = errors.New("pod: duplicate value")
)

// Archive errors.
var (
	ErrInvalidHeaderSize  = errors.New("pod: invalid archive header size")
	ErrInvalidMagic       = errors.New("pod: invalid archive magic number")
	ErrChecksumMismatch   = errors.New("pod: archive checksum mismatch")
	ErrInvalidCompression = errors.New("pod: invalid archive compression type")
)
