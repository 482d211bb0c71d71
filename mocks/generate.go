package mocks

//go:generate mockgen -destination=./mock_host_probe.go -package=mocks github.com/rxtech-lab/argo-vector/internal/scheduler HostProbe
//go:generate mockgen -destination=./mock_indicator_registry.go -package=mocks github.com/rxtech-lab/argo-vector/internal/indicator IndicatorRegistry
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-vector/internal/backtest/engine/engine_v1/datasource DataSource
