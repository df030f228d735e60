package mocks

//go:generate mockgen -destination=./mock_simulation.go -package=mocks github.com/rxtech-lab/argo-gym/internal/backtest/engine Simulation
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1/datasource DataSource
//go:generate mockgen -destination=./mock_recorder.go -package=mocks github.com/rxtech-lab/argo-gym/pkg/gym Recorder
