package datasource

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-vector/internal/types"
)

// Format is the on-disk format of a series file.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

type DataSource interface {
	// Initialize initializes the data source with the given data path in parquet or csv format
	Initialize(path string) error
	// ReadSeries reads the whole series ordered by time. Numeric columns other
	// than OHLCV are returned as extra columns.
	ReadSeries(ctx context.Context, start optional.Option[time.Time], end optional.Option[time.Time]) (*types.PriceSeries, error)
	// Columns returns the column names of the source in file order
	Columns(ctx context.Context) ([]string, error)
	// Count returns the number of rows in the data source
	Count(ctx context.Context) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}
