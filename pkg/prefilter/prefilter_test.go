package prefilter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/aitags/pkg/types"
)

func TestPrefilter_MatchingKeyword(t *testing.T) {
	pf := New()
	content := []byte("// @AI:EXPIRY 2025-01-01\nfunc main() {}\n")

	filtered := pf.Filter(content)

	require.Len(t, filtered, 1)
	assert.Equal(t, types.KindExpiry, filtered[0])
}

func TestPrefilter_BothKinds(t *testing.T) {
	pf := New()
	content := []byte("# @AI:SYNC src/a.ts\n# @AI:EXPIRY 2030-01-01\n# @AI:SYNC b.ts\n")

	filtered := pf.Filter(content)

	// Order follows construction, not position in content
	assert.Equal(t, []types.TagKind{types.KindExpiry, types.KindSync}, filtered)
}

func TestPrefilter_NoMatch(t *testing.T) {
	pf := New()

	assert.Empty(t, pf.Filter([]byte("plain source without tags")))
	assert.False(t, pf.MayContain([]byte("@AI:expiry lowercase is not a key")))
}

func TestPrefilter_EmptyContent(t *testing.T) {
	pf := New()

	assert.Nil(t, pf.Filter(nil))
	assert.False(t, pf.MayContain([]byte{}))
}

func TestPrefilter_RestrictedKinds(t *testing.T) {
	pf := New(types.KindSync, types.KindSync)
	content := []byte("// @AI:EXPIRY 2025-01-01")

	assert.False(t, pf.MayContain(content))
	assert.Equal(t, []string{"@AI:SYNC"}, pf.Keywords())
}

func TestPrefilter_KeyInsideLongerWord(t *testing.T) {
	pf := New()

	// The prefilter is a superset check; the parser rejects what it cannot use.
	assert.True(t, pf.MayContain([]byte("x@AI:SYNCHRONIZE")))
}

func TestPrefilter_ConcurrentFilter(t *testing.T) {
	// Arrange
	pf := New()
	tagged := []byte("// @AI:SYNC(a.go) x\n// @AI:EXPIRY 2025-01-01\n")
	plain := []byte("package main\n\nfunc main() {}\n")
	const workers = 32

	// Act
	results := make([][]types.TagKind, workers)
	misses := make([]bool, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				results[i] = pf.Filter(tagged)
				misses[i] = pf.MayContain(plain)
			}
		}()
	}
	wg.Wait()

	// Assert
	for i := range workers {
		assert.Equal(t, []types.TagKind{types.KindExpiry, types.KindSync}, results[i])
		assert.False(t, misses[i])
	}
}
