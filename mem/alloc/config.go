package alloc

import "fmt"

// Config defines the fixed geometry of a simulation. All sizes are in KB.
type Config struct {
	// Name for this configuration (shown by the CLI)
	Name string

	TotalMemory  int // size of the address space
	MinBlockSize int // smallest block granularity; also the split threshold
	MaxBlockSize int // largest request accepted by Spawn
	StaticSize   int // size of the region reserved by AllocateStatic
}

// Predefined configurations.
var (
	// Classic mirrors the textbook simulator: 1 MB, 4 KB granularity,
	// 128 KB process ceiling, 64 KB static region.
	ConfigClassic = Config{
		Name:         "Classic",
		TotalMemory:  1024,
		MinBlockSize: 4,
		MaxBlockSize: 128,
		StaticSize:   64,
	}

	// ConfigFine splits on any leftover, so no internal fragmentation occurs.
	ConfigFine = Config{
		Name:         "Fine",
		TotalMemory:  1024,
		MinBlockSize: 1,
		MaxBlockSize: 128,
		StaticSize:   64,
	}

	// Default configuration (used if none specified).
	DefaultConfig = ConfigClassic
)

// Validate checks that the configuration describes a usable address space.
func (c Config) Validate() error {
	switch {
	case c.TotalMemory <= 0:
		return fmt.Errorf("%w: TotalMemory must be > 0, got %d", ErrBadConfig, c.TotalMemory)
	case c.MinBlockSize < 1:
		return fmt.Errorf("%w: MinBlockSize must be >= 1, got %d", ErrBadConfig, c.MinBlockSize)
	case c.MaxBlockSize < c.MinBlockSize:
		return fmt.Errorf("%w: MaxBlockSize (%d) must be >= MinBlockSize (%d)",
			ErrBadConfig, c.MaxBlockSize, c.MinBlockSize)
	case c.StaticSize < 0:
		return fmt.Errorf("%w: StaticSize must be >= 0, got %d", ErrBadConfig, c.StaticSize)
	}
	return nil
}

// InRange reports whether size is an acceptable process request.
func (c Config) InRange(size int) bool {
	return size >= c.MinBlockSize && size <= c.MaxBlockSize
}
