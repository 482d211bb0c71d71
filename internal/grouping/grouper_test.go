package grouping

import (
	"fmt"
	"testing"

	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/stretchr/testify/suite"
)

type GrouperTestSuite struct {
	suite.Suite
}

func TestGrouperSuite(t *testing.T) {
	suite.Run(t, new(GrouperTestSuite))
}

func ma(period int) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindMA, map[string]types.ParamValue{
		"variant": types.IntParam(1),
		"ma_type": types.EnumParam("SMA"),
		"period":  types.IntParam(period),
	})
}

func boll(length int) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindBOLL, map[string]types.ParamValue{
		"variant":        types.IntParam(1),
		"ma_length":      types.IntParam(length),
		"std_multiplier": types.FloatParam(2),
	})
}

func nday(n int) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindNDAY, map[string]types.ParamValue{"n": types.IntParam(n)})
}

func spec(id string, entries []types.ParamSet, exits []types.ParamSet) types.StrategySpec {
	return types.StrategySpec{ID: id, Name: "test", Entries: entries, Exits: exits}
}

func (suite *GrouperTestSuite) mixedSpecs() []types.StrategySpec {
	return []types.StrategySpec{
		spec("a", []types.ParamSet{ma(5)}, []types.ParamSet{nday(3)}),
		spec("b", []types.ParamSet{boll(20)}, []types.ParamSet{nday(3)}),
		spec("c", []types.ParamSet{ma(10)}, []types.ParamSet{nday(5)}),
		spec("d", []types.ParamSet{ma(5), boll(10)}, []types.ParamSet{nday(2)}),
		spec("e", []types.ParamSet{boll(30)}, []types.ParamSet{nday(1)}),
		spec("f", []types.ParamSet{ma(20)}, []types.ParamSet{ma(4)}),
	}
}

func (suite *GrouperTestSuite) TestGroupPartitionsBySignature() {
	groups := GroupSpecs(suite.mixedSpecs())

	suite.Require().Len(groups, 4)
	suite.Equal("1x1:MA|NDAY", groups[0].Key())
	suite.Equal("1x1:BOLL|NDAY", groups[1].Key())
	suite.Equal("2x1:MA,BOLL|NDAY", groups[2].Key())
	suite.Equal("1x1:MA|MA", groups[3].Key())

	suite.Equal([]int{0, 2}, Unit{Members: groups[0].Members}.Indices())
	suite.Equal([]int{1, 4}, Unit{Members: groups[1].Members}.Indices())
	suite.Equal([]int{3}, Unit{Members: groups[2].Members}.Indices())
	suite.Equal([]int{5}, Unit{Members: groups[3].Members}.Indices())
}

func (suite *GrouperTestSuite) TestGroupIsAPartition() {
	specs := suite.mixedSpecs()
	groups := GroupSpecs(specs)

	seen := map[int]bool{}

	for _, g := range groups {
		for _, m := range g.Members {
			suite.False(seen[m.Index], "index %d appears twice", m.Index)
			seen[m.Index] = true
			suite.Equal(specs[m.Index].ID, m.Spec.ID)
			suite.Equal(g.Key(), m.Spec.Signature().Key())
		}
	}

	suite.Len(seen, len(specs))
}

func (suite *GrouperTestSuite) TestGroupEmpty() {
	suite.Empty(GroupSpecs(nil))
}

func (suite *GrouperTestSuite) TestGroupMembersKeepsIndices() {
	specs := suite.mixedSpecs()
	members := []Member{{Index: 7, Spec: specs[0]}, {Index: 9, Spec: specs[2]}}

	groups := GroupMembers(members)
	suite.Require().Len(groups, 1)
	suite.Equal([]int{7, 9}, Unit{Members: groups[0].Members}.Indices())
}

func (suite *GrouperTestSuite) TestChunk() {
	specs := make([]types.StrategySpec, 7)
	for i := range specs {
		specs[i] = spec(fmt.Sprintf("s#%d", i), []types.ParamSet{ma(i + 2)}, []types.ParamSet{nday(1)})
	}

	groups := GroupSpecs(specs)
	suite.Require().Len(groups, 1)

	testCases := []struct {
		name  string
		size  int
		sizes []int
	}{
		{name: "exact", size: 7, sizes: []int{7}},
		{name: "remainder", size: 3, sizes: []int{3, 3, 1}},
		{name: "larger than group", size: 100, sizes: []int{7}},
		{name: "zero is one", size: 0, sizes: []int{1, 1, 1, 1, 1, 1, 1}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			units := Chunk(groups[0], tc.size)
			suite.Require().Len(units, len(tc.sizes))

			var indices []int

			for i, u := range units {
				suite.Len(u.Members, tc.sizes[i])
				suite.Equal(groups[0].Key(), u.Signature.Key())
				indices = append(indices, u.Indices()...)
			}

			suite.Equal([]int{0, 1, 2, 3, 4, 5, 6}, indices)
		})
	}
}

func (suite *GrouperTestSuite) TestUnitsAreNumbered() {
	units := Units(GroupSpecs(suite.mixedSpecs()), 1)

	suite.Len(units, 6)

	for i, u := range units {
		suite.Equal(i, u.Seq)
		suite.Len(u.Members, 1)
	}
}
