package core

// config.go implements §4.1's configuration model: decoded from TOML, defaulted, and validated
// at construction time, following the teacher's New()-with-defaults-then-options idiom in
// internal/vm/vm.go, adapted to a config struct decoded with github.com/BurntSushi/toml rather
// than assembled from OptionFn closures.

import (
	"io"
	"math/bits"

	"github.com/BurntSushi/toml"
)

// Config is the complete, validated configuration for a CPU instance, decoded from the nested
// [general]/[system]/[memory]/[cache.*]/[pipeline] document described in §4.1.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	System   SystemConfig   `toml:"system"`
	Memory   MemoryConfig   `toml:"memory"`
	Cache    CacheTiers     `toml:"cache"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// GeneralConfig holds the top-level simulation mode knobs.
type GeneralConfig struct {
	TraceInstructions bool   `toml:"trace_instructions"`
	StartPC           uint64 `toml:"start_pc"`

	// DirectMode runs bare-metal: most traps terminate the simulation instead of
	// jumping to a guest-installed handler. An ECALL with a7 == 93 (SYS_EXIT) halts with the
	// exit code in a0; see SPEC_FULL.md §4.
	DirectMode bool   `toml:"direct_mode"`
	InitialSP  uint64 `toml:"initial_sp"`
}

// SystemConfig lays out the memory map and bus timing, per §6's default memory map.
type SystemConfig struct {
	RAMBase    uint64 `toml:"ram_base"`
	UARTBase   uint64 `toml:"uart_base"`
	DiskBase   uint64 `toml:"disk_base"`
	CLINTBase  uint64 `toml:"clint_base"`
	SysconBase uint64 `toml:"syscon_base"`

	BusWidth      uint8  `toml:"bus_width"`
	BusLatency    uint32 `toml:"bus_latency"`
	CLINTDivider  uint32 `toml:"clint_divider"`
	RAMSizeBytes  uint64 `toml:"ram_size_bytes"`
}

// MemoryController selects the main-memory timing model of §4.6.
type MemoryController string

const (
	MemoryControllerSimple MemoryController = "Simple"
	MemoryControllerDram   MemoryController = "Dram"
)

// MemoryConfig configures the main-memory model and the shared TLB size.
type MemoryConfig struct {
	Controller      MemoryController `toml:"controller"`
	TCAS            uint32           `toml:"t_cas"`
	TRAS            uint32           `toml:"t_ras"`
	TPRE            uint32           `toml:"t_pre"`
	RowMissLatency  uint32           `toml:"row_miss_latency"`
	ColumnBits      uint8            `toml:"column_bits"`
	TLBSize         int              `toml:"tlb_size"`
}

// ReplacementPolicy names a cache eviction strategy from §4.5.
type ReplacementPolicy string

const (
	PolicyLRU    ReplacementPolicy = "LRU"
	PolicyPLRU   ReplacementPolicy = "PLRU"
	PolicyFIFO   ReplacementPolicy = "FIFO"
	PolicyRandom ReplacementPolicy = "Random"
	PolicyMRU    ReplacementPolicy = "MRU"
)

// PrefetchStrategy names a prefetcher from §4.5.
type PrefetchStrategy string

const (
	PrefetchNone     PrefetchStrategy = "None"
	PrefetchNextLine PrefetchStrategy = "NextLine"
	PrefetchStride   PrefetchStrategy = "Stride"
	PrefetchStream   PrefetchStrategy = "Stream"
	PrefetchTagged   PrefetchStrategy = "Tagged"
)

// CacheLevelConfig is the shape of a single cache level.
type CacheLevelConfig struct {
	Enabled    bool              `toml:"enabled"`
	SizeBytes  int               `toml:"size_bytes"`
	LineBytes  int               `toml:"line_bytes"`
	Ways       int               `toml:"ways"`
	Policy     ReplacementPolicy `toml:"policy"`
	Prefetcher PrefetchStrategy  `toml:"prefetcher"`
	Latency    uint32            `toml:"latency"`
}

// CacheTiers groups the four cache levels named in §4.5.
type CacheTiers struct {
	L1I CacheLevelConfig `toml:"l1i"`
	L1D CacheLevelConfig `toml:"l1d"`
	L2  CacheLevelConfig `toml:"l2"`
	L3  CacheLevelConfig `toml:"l3"`
}

// BranchPredictorKind names a predictor algorithm from §4.4.
type BranchPredictorKind string

const (
	PredictorStatic     BranchPredictorKind = "Static"
	PredictorGShare     BranchPredictorKind = "GShare"
	PredictorPerceptron BranchPredictorKind = "Perceptron"
	PredictorTage       BranchPredictorKind = "Tage"
	PredictorTournament BranchPredictorKind = "Tournament"
)

// PipelineConfig configures issue width, predictor choice, and the out-of-order backend gate
// from SPEC_FULL.md's Open Question decision.
type PipelineConfig struct {
	Width            int                 `toml:"width"`
	BranchPredictor  BranchPredictorKind `toml:"branch_predictor"`
	MisaOverride     uint64              `toml:"misa_override"`
	OutOfOrder       bool                `toml:"out_of_order"`
	BTBEntries       int                 `toml:"btb_entries"`
	RASDepth         int                 `toml:"ras_depth"`
}

// Default returns a Config with the conservative, single-issue, in-order defaults used
// throughout the round-trip scenarios of §8.
func Default() Config {
	return Config{
		General: GeneralConfig{
			StartPC:   0x8000_0000,
			InitialSP: 0x8800_0000,
		},
		System: SystemConfig{
			RAMBase:      0x8000_0000,
			RAMSizeBytes: 128 << 20,
			UARTBase:     0x1000_0000,
			DiskBase:     0x9000_0000,
			CLINTBase:    0x0200_0000,
			SysconBase:   0x0010_0000,
			BusWidth:     64,
			BusLatency:   4,
			CLINTDivider: 100,
		},
		Memory: MemoryConfig{
			Controller:     MemoryControllerSimple,
			TCAS:           14,
			TRAS:           33,
			TPRE:           14,
			RowMissLatency: 40,
			ColumnBits:     10,
			TLBSize:        32,
		},
		Cache: CacheTiers{
			L1I: CacheLevelConfig{Enabled: true, SizeBytes: 32 << 10, LineBytes: 64, Ways: 4, Policy: PolicyLRU, Prefetcher: PrefetchNextLine, Latency: 1},
			L1D: CacheLevelConfig{Enabled: true, SizeBytes: 32 << 10, LineBytes: 64, Ways: 8, Policy: PolicyLRU, Prefetcher: PrefetchNone, Latency: 1},
			L2:  CacheLevelConfig{Enabled: true, SizeBytes: 256 << 10, LineBytes: 64, Ways: 8, Policy: PolicyLRU, Prefetcher: PrefetchStride, Latency: 10},
			L3:  CacheLevelConfig{Enabled: true, SizeBytes: 2 << 20, LineBytes: 64, Ways: 16, Policy: PolicyLRU, Prefetcher: PrefetchStream, Latency: 30},
		},
		Pipeline: PipelineConfig{
			Width:           1,
			BranchPredictor: PredictorGShare,
			BTBEntries:      256,
			RASDepth:        16,
		},
	}
}

// LoadConfig decodes a TOML document over a copy of Default() and validates the result.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := Default()

	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, &ConfigError{Field: "toml", Reason: err.Error()}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every constraint named in §4.1, returning the first violation found.
func (c *Config) Validate() error {
	if err := c.Cache.L1I.validate("cache.l1i"); err != nil {
		return err
	}

	if err := c.Cache.L1D.validate("cache.l1d"); err != nil {
		return err
	}

	if err := c.Cache.L2.validate("cache.l2"); err != nil {
		return err
	}

	if err := c.Cache.L3.validate("cache.l3"); err != nil {
		return err
	}

	if c.Memory.TLBSize <= 0 {
		return &ConfigError{Field: "memory.tlb_size", Reason: "must be positive"}
	}

	if c.Memory.Controller != MemoryControllerSimple && c.Memory.Controller != MemoryControllerDram {
		return &ConfigError{Field: "memory.controller", Reason: "must be Simple or Dram"}
	}

	if c.Pipeline.Width <= 0 {
		return &ConfigError{Field: "pipeline.width", Reason: "must be positive"}
	}

	return nil
}

func (cl *CacheLevelConfig) validate(field string) error {
	if !cl.Enabled {
		return nil
	}

	if cl.LineBytes <= 0 || bits.OnesCount(uint(cl.LineBytes)) != 1 {
		return &ConfigError{Field: field + ".line_bytes", Reason: "must be a power of two"}
	}

	if cl.Ways <= 0 {
		return &ConfigError{Field: field + ".ways", Reason: "must be positive"}
	}

	if cl.SizeBytes <= 0 || cl.SizeBytes%(cl.LineBytes*cl.Ways) != 0 {
		return &ConfigError{Field: field + ".size_bytes", Reason: "must equal line_bytes * ways * sets for a positive integer number of sets"}
	}

	sets := cl.SizeBytes / (cl.LineBytes * cl.Ways)
	if bits.OnesCount(uint(sets)) != 1 {
		return &ConfigError{Field: field + ".size_bytes", Reason: "implied set count must be a power of two"}
	}

	return nil
}
