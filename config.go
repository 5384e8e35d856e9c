package synptr

import (
	"fmt"
	"io"
	"log/slog"
)

type MemoryType int

const (
	GO   MemoryType = 1
	SHM  MemoryType = 2
	MMAP MemoryType = 3
)

func (t MemoryType) String() string {
	switch t {
	case GO:
		return "go"
	case SHM:
		return "shm"
	case MMAP:
		return "mmap"
	default:
		return fmt.Sprintf("MemoryType(%d)", int(t))
	}
}

// ParseMemoryType maps "go", "shm" and "mmap" to their MemoryType.
func ParseMemoryType(s string) (MemoryType, error) {
	switch s {
	case "go", "GO":
		return GO, nil
	case "shm", "SHM":
		return SHM, nil
	case "mmap", "MMAP":
		return MMAP, nil
	}
	return 0, fmt.Errorf("%w: memory type %q", ErrInvalidConfig, s)
}

const (
	defaultMaxSegments    = 3
	defaultMaxSegmentSize = 128 * MB
	// segment ids 0 and 1 are never handed out
	firstSegmentIndex = 2
	// the packed model keeps the segment id in 16 bits
	maxSegmentID = 1<<16 - 1
)

type Config struct {
	// memory type in GO SHM MMAP
	MemoryType MemoryType
	// shm key or mmap file prefix, every buffer gets "<key>.<segment>.<role>";
	// an empty key maps anonymous memory for MMAP
	MemoryKey string
	// number of usable segments
	MaxSegments uint64
	// capacity of every segment in bytes
	MaxSegmentSize uint64
	// nil discards all output
	Logger *slog.Logger
}

func DefaultConfig() *Config {
	var defaultConfig = &Config{
		MemoryType:     GO,
		MaxSegments:    defaultMaxSegments,
		MaxSegmentSize: defaultMaxSegmentSize,
	}
	return defaultConfig
}

// Validate reports the first field that cannot back a registry.
func (c *Config) Validate() error {
	switch c.MemoryType {
	case GO, MMAP:
	case SHM:
		if c.MemoryKey == "" {
			return fmt.Errorf("%w: shm MemoryKey is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: MemoryType: %d not support", ErrInvalidConfig, c.MemoryType)
	}
	if c.MaxSegments == 0 {
		return fmt.Errorf("%w: MaxSegments must be positive", ErrInvalidConfig)
	}
	if c.MaxSegments+firstSegmentIndex-1 > maxSegmentID {
		return fmt.Errorf("%w: MaxSegments %d exceeds 16-bit segment ids", ErrInvalidConfig, c.MaxSegments)
	}
	if c.MaxSegmentSize == 0 || c.MaxSegmentSize > offsetMask {
		return fmt.Errorf("%w: MaxSegmentSize %d out of range", ErrInvalidConfig, c.MaxSegmentSize)
	}
	return nil
}

func mergeConfig(c *Config) *Config {
	config := DefaultConfig()
	if c == nil {
		config.Logger = discardLogger()
		return config
	}
	if c.MemoryType != 0 {
		config.MemoryType = c.MemoryType
	}
	config.MemoryKey = c.MemoryKey
	if c.MaxSegments != 0 {
		config.MaxSegments = c.MaxSegments
	}
	if c.MaxSegmentSize != 0 {
		config.MaxSegmentSize = c.MaxSegmentSize
	}
	config.Logger = c.Logger
	if config.Logger == nil {
		config.Logger = discardLogger()
	}
	return config
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
