package datasource

import (
	"slices"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
)

// PrepareOptions selects the bars PrepareBars reads.
type PrepareOptions struct {
	// Symbol keeps the bars of one symbol. Empty keeps every symbol.
	Symbol string
	Start  optional.Option[time.Time]
	End    optional.Option[time.Time]
	// Interval resamples the bars into time buckets.
	Interval optional.Option[Interval]
	// MinBars fails early when the range holds fewer rows.
	MinBars int
}

// PrepareBars returns a bar source that loads path into ds and reads the bars selected by
// options. Every call reloads the file.
func PrepareBars(ds DataSource, path string, options PrepareOptions) func() ([]types.MarketData, error) {
	return func() ([]types.MarketData, error) {
		if err := ds.Initialize(path); err != nil {
			return nil, err
		}

		symbols, err := ds.Symbols()
		if err != nil {
			return nil, err
		}

		if options.Symbol != "" {
			if !slices.Contains(symbols, options.Symbol) {
				return nil, errors.Newf(errors.ErrCodeDataNotFound, "symbol %s not found in %s", options.Symbol, path)
			}

			symbols = []string{options.Symbol}
		}

		if options.MinBars > 0 {
			count, err := ds.Count(options.Start, options.End)
			if err != nil {
				return nil, err
			}

			if count < options.MinBars {
				return nil, errors.NewInsufficientDataErrorf(options.MinBars, count, options.Symbol,
					"insufficient bars in %s: need at least %d, got %d", path, options.MinBars, count)
			}
		}

		var bars []types.MarketData

		if options.Interval.IsSome() {
			bars, err = readResampled(ds, symbols, options)
		} else {
			bars, err = readAll(ds, options)
		}

		if err != nil {
			return nil, err
		}

		if len(bars) == 0 {
			return nil, errors.Newf(errors.ErrCodeNoDataFound, "no bars found in %s", path)
		}

		return bars, nil
	}
}

func readAll(ds DataSource, options PrepareOptions) ([]types.MarketData, error) {
	var bars []types.MarketData

	for data, err := range ds.ReadAll(options.Start, options.End) {
		if err != nil {
			return nil, err
		}

		if options.Symbol != "" && data.Symbol != options.Symbol {
			continue
		}

		bars = append(bars, data)
	}

	return bars, nil
}

// readResampled reads time buckets between the start and the end of the range. An open
// end stops at the last bar of the selected symbols.
func readResampled(ds DataSource, symbols []string, options PrepareOptions) ([]types.MarketData, error) {
	start := time.Time{}
	if options.Start.IsSome() {
		start = options.Start.Unwrap()
	}

	end := time.Time{}
	if options.End.IsSome() {
		end = options.End.Unwrap()
	} else {
		for _, symbol := range symbols {
			last, err := ds.ReadLastData(symbol)
			if err != nil {
				return nil, err
			}

			if last.Time.After(end) {
				end = last.Time
			}
		}
	}

	resampled, err := ds.GetRange(start, end, options.Interval)
	if err != nil {
		return nil, err
	}

	if options.Symbol == "" {
		return resampled, nil
	}

	bars := make([]types.MarketData, 0, len(resampled))

	for _, data := range resampled {
		if data.Symbol == options.Symbol {
			bars = append(bars, data)
		}
	}

	return bars, nil
}
