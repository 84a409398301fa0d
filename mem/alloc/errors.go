package alloc

import "errors"

var (
	// ErrOutOfMemory indicates that no free block is large enough for the request.
	ErrOutOfMemory = errors.New("alloc: no free block large enough")

	// ErrInvalidOwner indicates an owner that cannot be used for the operation
	// (a negative id, or the system owner passed to Release).
	ErrInvalidOwner = errors.New("alloc: invalid owner")

	// ErrOwnerNotFound indicates a release for an owner that holds no blocks.
	ErrOwnerNotFound = errors.New("alloc: owner holds no blocks")

	// ErrInvalidSize indicates a non-positive allocation size.
	ErrInvalidSize = errors.New("alloc: size must be > 0")

	// ErrSizeOutOfRange indicates a process request outside [MinBlockSize, MaxBlockSize].
	ErrSizeOutOfRange = errors.New("alloc: size out of range")

	// ErrBadConfig indicates an invalid Config.
	ErrBadConfig = errors.New("alloc: bad config")
)
