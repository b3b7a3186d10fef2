package workload

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"putall":     PutAll,
		"getall":     GetAll,
		"popular":    PopularGet,
		"getpopular": PopularGet,
		"mixed":      Mixed,
		" Mixed ":    Mixed,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("scan")
	assert.ErrorIs(t, err, ErrUnknownWorkload)
}

func TestGenerator_KeysInRange(t *testing.T) {
	gen := Generator{KeySpace: 50, KeyPrefix: "k", ValueLen: 8}
	rng := NewRNG(1, 0)

	seen := make(map[int]bool)
	for range 5000 {
		key := gen.NextKey(rng)
		require.True(t, strings.HasPrefix(key, "k"))
		n, err := strconv.Atoi(strings.TrimPrefix(key, "k"))
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 50)
		seen[n] = true
	}
	assert.Len(t, seen, 50, "every key in a small space should be drawn")
}

func TestGenerator_Value(t *testing.T) {
	gen := DefaultGenerator()
	v := gen.NextValue(NewRNG(7, 0), 12)
	assert.Len(t, v, 12)
	for _, c := range v {
		assert.Contains(t, valueChars, string(c))
	}
}

func TestNewRNG_Deterministic(t *testing.T) {
	gen := DefaultGenerator()
	a, b := NewRNG(42, 3), NewRNG(42, 3)
	for range 100 {
		require.Equal(t, gen.NextKey(a), gen.NextKey(b))
	}

	// Different workers must not share a sequence.
	c, d := NewRNG(42, 0), NewRNG(42, 1)
	same := 0
	for range 100 {
		if gen.NextKey(c) == gen.NextKey(d) {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestHotKeys(t *testing.T) {
	assert.Equal(t, []string{"k1", "k2", "k3", "k4", "k5"}, HotKeys("k", 5))
	assert.Empty(t, HotKeys("k", 0))
}

func countOps(p Policy, n int) [NumOperations]int {
	var counts [NumOperations]int
	rng := NewRNG(99, 0)
	for range n {
		counts[p.Next(rng).Op]++
	}
	return counts
}

func TestPolicy_PutAll(t *testing.T) {
	p := NewPolicy(PutAll, DefaultGenerator())
	rng := NewRNG(5, 0)
	for range 1000 {
		req := p.Next(rng)
		require.Equal(t, Create, req.Op)
		require.Len(t, req.Value, DefaultValueLen)
	}
}

func TestPolicy_GetAll(t *testing.T) {
	gen := Generator{KeySpace: 1000, KeyPrefix: "k", ValueLen: 4}
	p := NewPolicy(GetAll, gen)
	rng := NewRNG(5, 0)
	for range 1000 {
		req := p.Next(rng)
		require.Equal(t, Read, req.Op)
		require.Empty(t, req.Value)
		n, err := strconv.Atoi(strings.TrimPrefix(req.Key, "k"))
		require.NoError(t, err)
		require.True(t, n >= 1 && n <= 1000)
	}
}

func TestPolicy_PopularGet(t *testing.T) {
	gen := DefaultGenerator()
	gen.HotKeys = []string{"alpha", "beta", "gamma"}
	p := NewPolicy(PopularGet, gen)
	rng := NewRNG(5, 0)
	hits := make(map[string]int)
	for range 3000 {
		req := p.Next(rng)
		require.Equal(t, Read, req.Op)
		require.Contains(t, gen.HotKeys, req.Key)
		hits[req.Key]++
	}
	assert.Len(t, hits, 3)
}

func TestPolicy_MixedProportions(t *testing.T) {
	const n = 30000
	counts := countOps(NewPolicy(Mixed, DefaultGenerator()), n)
	for op, c := range counts {
		frac := float64(c) / n
		assert.InDelta(t, 1.0/3, frac, 0.02, "op %s drew %.4f", Operation(op), frac)
	}
}

func TestPolicy_MixedCreateCarriesValue(t *testing.T) {
	p := NewPolicy(Mixed, DefaultGenerator())
	rng := NewRNG(11, 0)
	for range 3000 {
		req := p.Next(rng)
		if req.Op == Create {
			require.NotEmpty(t, req.Value)
		} else {
			require.Empty(t, req.Value)
		}
		require.NotEmpty(t, req.Key)
	}
}

func TestPolicy_SingleOpKindsNeverMix(t *testing.T) {
	for _, tc := range []struct {
		kind Kind
		op   Operation
	}{
		{PutAll, Create},
		{GetAll, Read},
		{PopularGet, Read},
	} {
		counts := countOps(NewPolicy(tc.kind, DefaultGenerator()), 2000)
		assert.Equal(t, 2000, counts[tc.op], tc.kind.String())
	}
}
