package cache

import (
	"sync"
	"testing"

	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/stretchr/testify/suite"
)

// CacheTestSuite is a test suite for SignalCache
type CacheTestSuite struct {
	suite.Suite
	cache *SignalCache
}

// SetupTest runs before each test
func (suite *CacheTestSuite) SetupTest() {
	suite.cache = NewSignalCache()
}

// TestCacheSuite runs the test suite
func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func maNday() types.ShapeSignature {
	return types.ShapeSignature{
		EntryCount: 1,
		ExitCount:  1,
		EntryKinds: []types.IndicatorKind{types.IndicatorKindMA},
		ExitKinds:  []types.IndicatorKind{types.IndicatorKindNDAY},
	}
}

func bollNday() types.ShapeSignature {
	return types.ShapeSignature{
		EntryCount: 1,
		ExitCount:  1,
		EntryKinds: []types.IndicatorKind{types.IndicatorKindBOLL},
		ExitKinds:  []types.IndicatorKind{types.IndicatorKindNDAY},
	}
}

func (suite *CacheTestSuite) TestCacheInterface() {
	var c Cache = NewSignalCache()
	suite.NotNil(c)
}

func (suite *CacheTestSuite) TestArenaIsReusedPerSignature() {
	a := suite.cache.Arena(maNday())
	b := suite.cache.Arena(maNday())
	c := suite.cache.Arena(bollNday())

	suite.Same(a, b)
	suite.NotSame(a, c)
	suite.Equal("1x1:MA|NDAY", a.Signature())
	suite.Equal(2, suite.cache.Size())
}

func (suite *CacheTestSuite) TestGetMissing() {
	arena := suite.cache.Arena(maNday())

	suite.True(arena.Get(types.IndicatorKindMA, types.SignalRoleEntry, "h").IsNone())
}

func (suite *CacheTestSuite) TestPutIsWriteOnce() {
	arena := suite.cache.Arena(maNday())

	suite.True(arena.Put(types.IndicatorKindMA, types.SignalRoleEntry, "h", []int8{1, 0, -1}))
	suite.False(arena.Put(types.IndicatorKindMA, types.SignalRoleEntry, "h", []int8{0, 0, 0}))

	got := arena.Get(types.IndicatorKindMA, types.SignalRoleEntry, "h")
	suite.True(got.IsSome())
	suite.Equal([]int8{1, 0, -1}, got.Unwrap())

	// same hash under another role is a different column
	suite.True(arena.Get(types.IndicatorKindMA, types.SignalRoleExit, "h").IsNone())
	suite.Equal(1, arena.Len())
}

func (suite *CacheTestSuite) TestArenasDoNotShareEntries() {
	suite.cache.Arena(maNday()).Put(types.IndicatorKindMA, types.SignalRoleEntry, "h", []int8{1})

	suite.True(suite.cache.Arena(bollNday()).Get(types.IndicatorKindMA, types.SignalRoleEntry, "h").IsNone())
}

func (suite *CacheTestSuite) TestReset() {
	arena := suite.cache.Arena(maNday())
	arena.Put(types.IndicatorKindMA, types.SignalRoleEntry, "h", []int8{1})

	suite.cache.Reset()

	suite.Equal(0, suite.cache.Size())
	suite.True(suite.cache.Arena(maNday()).Get(types.IndicatorKindMA, types.SignalRoleEntry, "h").IsNone())
}

func (suite *CacheTestSuite) TestConcurrentPut() {
	arena := suite.cache.Arena(maNday())

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	for i := 0; i < 32; i++ {
		wg.Add(1)

		go func(v int8) {
			defer wg.Done()

			if arena.Put(types.IndicatorKindMA, types.SignalRoleEntry, "h", []int8{v}) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(int8(i))
	}

	wg.Wait()

	suite.Equal(1, wins)
	suite.Equal(1, arena.Len())
}
