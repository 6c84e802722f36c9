package mem

import "errors"

var (
	// ErrNegativeSize indicates a negative allocation size.
	ErrNegativeSize = errors.New("mem: negative allocation size")

	// ErrMapFailed indicates that an anonymous page mapping could not be created.
	ErrMapFailed = errors.New("mem: page mapping failed")

	// ErrUnmapFailed indicates that releasing a page mapping failed.
	ErrUnmapFailed = errors.New("mem: page unmapping failed")

	// ErrBadSizeClasses indicates an unusable SizeClassConfig.
	ErrBadSizeClasses = errors.New("mem: invalid size class configuration")

	// ErrUnknownAllocator indicates an allocator name that Parse does not know.
	ErrUnknownAllocator = errors.New("mem: unknown allocator")
)
