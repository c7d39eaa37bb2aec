package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Config defines the allocator's size-class and growth strategy.
type Config struct {
	// Name for this configuration (for benchmarking and the driver)
	Name string

	// NumClasses is the number of segregated free lists. Class i holds
	// blocks in [2^(i+4), 2^(i+5)), the last class is open-ended.
	NumClasses int

	// ChunkSize is the minimum heap extension. Zero uses the provider's page size.
	ChunkSize int

	// SplitThreshold is the smallest remainder split off a block during
	// placement. Zero uses format.MinBlockSize.
	SplitThreshold int
}

// Predefined configurations.
var (
	// ConfigStandard: ten power-of-two classes, page-sized growth.
	ConfigStandard = Config{
		Name:       "Standard",
		NumClasses: format.DefaultNumClasses,
	}

	// ConfigCoarse: fewer lists, so everything above 1KB shares one list.
	ConfigCoarse = Config{
		Name:       "Coarse",
		NumClasses: 6,
	}

	// ConfigFine: more lists and 64KB growth for workloads with large blocks.
	ConfigFine = Config{
		Name:       "Fine",
		NumClasses: 16,
		ChunkSize:  64 * 1024,
	}

	// ConfigNoSplitSmall: only split when the remainder can hold a 32-byte
	// payload, trading internal fragmentation for fewer tiny free blocks.
	ConfigNoSplitSmall = Config{
		Name:           "NoSplitSmall",
		NumClasses:     format.DefaultNumClasses,
		SplitThreshold: format.MinBlockSize + 32,
	}

	// Default configuration (used if none specified).
	DefaultConfig = ConfigStandard
)

// Presets lists the predefined configurations by name.
var Presets = map[string]Config{
	ConfigStandard.Name:     ConfigStandard,
	ConfigCoarse.Name:       ConfigCoarse,
	ConfigFine.Name:         ConfigFine,
	ConfigNoSplitSmall.Name: ConfigNoSplitSmall,
}

// PresetByName returns the predefined configuration called name.
func PresetByName(name string) (Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown preset %q", ErrBadConfig, name)
	}
	return cfg, nil
}

// resolve fills in defaults and validates the configuration.
func (c Config) resolve(pageSize int) (Config, error) {
	if c.NumClasses == 0 {
		c.NumClasses = format.DefaultNumClasses
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = pageSize
	}
	if c.SplitThreshold == 0 {
		c.SplitThreshold = format.MinBlockSize
	}

	switch {
	case c.NumClasses < 1 || c.NumClasses > format.MaxNumClasses:
		return c, fmt.Errorf("%w: NumClasses %d not in [1, %d]", ErrBadConfig, c.NumClasses, format.MaxNumClasses)
	case c.ChunkSize < format.MinBlockSize || !format.IsAligned(c.ChunkSize):
		return c, fmt.Errorf("%w: ChunkSize %d must be an %d-byte multiple >= %d",
			ErrBadConfig, c.ChunkSize, format.Alignment, format.MinBlockSize)
	case c.SplitThreshold < format.MinBlockSize || !format.IsAligned(c.SplitThreshold):
		return c, fmt.Errorf("%w: SplitThreshold %d must be an %d-byte multiple >= %d",
			ErrBadConfig, c.SplitThreshold, format.Alignment, format.MinBlockSize)
	}
	return c, nil
}

// String returns a human-readable description of the configuration.
func (c Config) String() string {
	return fmt.Sprintf("%s(classes=%d chunk=%d split=%d)", c.Name, c.NumClasses, c.ChunkSize, c.SplitThreshold)
}
