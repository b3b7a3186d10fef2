package workload

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	DefaultKeySpace   = 500000
	DefaultKeyPrefix  = "k"
	DefaultValueLen   = 12
	DefaultHotSetSize = 5
)

const valueChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator draws keys and values. It holds no RNG of its own, so a single
// Generator can be shared read-only by every worker.
type Generator struct {
	KeySpace  int
	KeyPrefix string
	ValueLen  int
	HotKeys   []string
}

func DefaultGenerator() Generator {
	return Generator{
		KeySpace:  DefaultKeySpace,
		KeyPrefix: DefaultKeyPrefix,
		ValueLen:  DefaultValueLen,
		HotKeys:   HotKeys(DefaultKeyPrefix, DefaultHotSetSize),
	}
}

// HotKeys returns prefix1..prefixN.
func HotKeys(prefix string, n int) []string {
	keys := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		keys = append(keys, prefix+strconv.Itoa(i))
	}
	return keys
}

// NextKey draws uniformly from prefix1..prefixKeySpace.
func (g Generator) NextKey(rng *rand.Rand) string {
	return g.KeyPrefix + strconv.Itoa(rng.IntN(g.KeySpace)+1)
}

func (g Generator) NextHotKey(rng *rand.Rand) string {
	return g.HotKeys[rng.IntN(len(g.HotKeys))]
}

func (g Generator) NextValue(rng *rand.Rand, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = valueChars[rng.IntN(len(valueChars))]
	}
	return string(b)
}

// NewRNG returns an independent PCG stream for one worker. A zero base
// seed is replaced with the current time.
func NewRNG(baseSeed uint64, workerID int) *rand.Rand {
	if baseSeed == 0 {
		baseSeed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(baseSeed, uint64(workerID)))
}
