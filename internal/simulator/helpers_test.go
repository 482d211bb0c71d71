package simulator

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-vector/internal/grouping"
	"github.com/rxtech-lab/argo-vector/internal/types"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// seriesOf builds a series whose open and close both equal prices.
func seriesOf(prices ...float64) *types.PriceSeries {
	bars := make([]types.MarketData, len(prices))
	for i, p := range prices {
		bars[i] = types.MarketData{Time: start.AddDate(0, 0, i), Open: p, High: p, Low: p, Close: p}
	}

	return types.NewPriceSeries(bars)
}

func maSet(period int) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindMA, map[string]types.ParamValue{
		"variant": types.IntParam(1),
		"ma_type": types.EnumParam("SMA"),
		"period":  types.IntParam(period),
	})
}

func ndaySet(n int) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindNDAY, map[string]types.ParamValue{"n": types.IntParam(n)})
}

func maMaSignature() types.ShapeSignature {
	return types.ShapeSignature{
		EntryCount: 1,
		ExitCount:  1,
		EntryKinds: []types.IndicatorKind{types.IndicatorKindMA},
		ExitKinds:  []types.IndicatorKind{types.IndicatorKindMA},
	}
}

func maNdaySignature() types.ShapeSignature {
	return types.ShapeSignature{
		EntryCount: 1,
		ExitCount:  1,
		EntryKinds: []types.IndicatorKind{types.IndicatorKindMA},
		ExitKinds:  []types.IndicatorKind{types.IndicatorKindNDAY},
	}
}

// maMaMembers returns n MA|MA members with caller indices 0..n-1.
func maMaMembers(n int) []grouping.Member {
	members := make([]grouping.Member, n)
	for i := range members {
		members[i] = grouping.Member{
			Index: i,
			Spec: types.StrategySpec{
				ID:      fmt.Sprintf("cross#%d", i),
				Name:    "cross",
				Entries: []types.ParamSet{maSet(i + 2)},
				Exits:   []types.ParamSet{maSet(i + 3)},
			},
		}
	}

	return members
}

func maNdayMembers(periods ...int) []grouping.Member {
	members := make([]grouping.Member, len(periods))
	for i, n := range periods {
		members[i] = grouping.Member{
			Index: i,
			Spec: types.StrategySpec{
				ID:      fmt.Sprintf("hold#%d", i),
				Name:    "hold",
				Entries: []types.ParamSet{maSet(5)},
				Exits:   []types.ParamSet{ndaySet(n)},
			},
		}
	}

	return members
}

func matrix(columns ...[]int8) *types.SignalMatrix {
	m, err := types.NewSignalMatrixFromColumns(len(columns[0]), columns)
	if err != nil {
		panic(err)
	}

	return m
}

// immediate executes signals on the same bar at the close with no costs.
func immediate() types.TradingParams {
	params := types.DefaultTradingParams()
	params.TransactionCost = 0
	params.Slippage = 0
	params.TradeDelay = 0
	params.TradePriceRule = types.TradePriceClose

	return params
}
