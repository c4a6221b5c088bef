package driver

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// BTBConfig holds configuration for the branch target buffer.
type BTBConfig struct {
	// Sets is the number of sets.
	Sets int
	// Associativity is the number of ways per set.
	Associativity int
}

// DefaultBTBConfig returns a 512-entry, 4-way configuration.
func DefaultBTBConfig() BTBConfig {
	return BTBConfig{
		Sets:          128,
		Associativity: 4,
	}
}

// BTB is a set-associative branch target buffer with LRU replacement. The
// Akita cache directory tracks which branch PCs are resident; targets live in
// a parallel array indexed by (setID * associativity + wayID).
type BTB struct {
	config    BTBConfig
	directory *akitacache.DirectoryImpl
	targets   []uint64
}

// NewBTB creates an empty BTB.
func NewBTB(config BTBConfig) *BTB {
	if config.Sets == 0 {
		config.Sets = DefaultBTBConfig().Sets
	}
	if config.Associativity == 0 {
		config.Associativity = DefaultBTBConfig().Associativity
	}

	return &BTB{
		config: config,
		// Block size 1: every PC is its own line, set = PC mod Sets.
		directory: akitacache.NewDirectory(
			config.Sets,
			config.Associativity,
			1,
			akitacache.NewLRUVictimFinder(),
		),
		targets: make([]uint64, config.Sets*config.Associativity),
	}
}

func (b *BTB) slot(block *akitacache.Block) int {
	return block.SetID*b.config.Associativity + block.WayID
}

// Lookup returns the cached target of the branch at pc.
func (b *BTB) Lookup(pc uint64) (target uint64, hit bool) {
	block := b.directory.Lookup(0, pc)
	if block == nil || !block.IsValid {
		return 0, false
	}

	b.directory.Visit(block)

	return b.targets[b.slot(block)], true
}

// Insert records the target of the branch at pc, evicting the least recently
// used entry of its set if needed.
func (b *BTB) Insert(pc, target uint64) {
	block := b.directory.Lookup(0, pc)
	if block == nil || !block.IsValid {
		block = b.directory.FindVictim(pc)
		if block == nil {
			return
		}
		block.Tag = pc
		block.IsValid = true
	}

	b.targets[b.slot(block)] = target
	b.directory.Visit(block)
}

// Entries returns the total capacity.
func (b *BTB) Entries() int {
	return b.config.Sets * b.config.Associativity
}

// Reset invalidates every entry.
func (b *BTB) Reset() {
	b.directory.Reset()
	clear(b.targets)
}
