package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-vector/internal/logger"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"go.uber.org/zap"
)

const viewName = "market_data"

// timeColumns are the accepted names of the time column, in lookup order.
var timeColumns = []string{"time", "timestamp", "datetime", "date"}

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	path   string
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// An empty path or ":memory:" keeps the database in memory.
// This is distinct from Initialize() which attaches the series file.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// FormatOf picks the reader from the file extension. Anything that is not
// csv or tsv is read as parquet.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return FormatCSV
	default:
		return FormatParquet
	}
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	_, err := d.db.Exec(`DROP VIEW IF EXISTS ` + viewName)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	reader := "read_parquet"
	if FormatOf(path) == FormatCSV {
		reader = "read_csv_auto"
	}

	// Squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`CREATE VIEW %s AS SELECT * FROM %s('%s')`, viewName, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read %s", path)
	}

	d.path = path

	return nil
}

type columnInfo struct {
	name    string
	numeric bool
}

func (d *DuckDBDataSource) describe(ctx context.Context) ([]columnInfo, error) {
	if d.path == "" {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source is not initialized")
	}

	rows, err := d.db.QueryContext(ctx, `DESCRIBE `+viewName)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe series", err)
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe series", err)
	}

	var out []columnInfo

	for rows.Next() {
		// DESCRIBE returns name, type, null, key, default, extra
		values := make([]sql.NullString, len(columnNames))
		targets := make([]any, len(columnNames))

		for i := range values {
			targets[i] = &values[i]
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan column description", err)
		}

		out = append(out, columnInfo{name: values[0].String, numeric: isNumericType(values[1].String)})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating column description", err)
	}

	return out, nil
}

func isNumericType(t string) bool {
	t = strings.ToUpper(t)

	for _, prefix := range []string{"DOUBLE", "FLOAT", "REAL", "DECIMAL", "NUMERIC", "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT", "UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT"} {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}

	return false
}

// Columns implements DataSource.
func (d *DuckDBDataSource) Columns(ctx context.Context) ([]string, error) {
	info, err := d.describe(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(info))
	for i, c := range info {
		names[i] = c.name
	}

	return names, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(ctx context.Context) (int, error) {
	query, args, err := d.sq.Select("COUNT(*)").From(viewName).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count rows", err)
	}

	return count, nil
}

// seriesLayout maps source columns onto the fields of a PriceSeries.
type seriesLayout struct {
	time  string
	ohlcv map[string]string
	extra []string
}

func layoutOf(info []columnInfo) (seriesLayout, error) {
	layout := seriesLayout{ohlcv: map[string]string{}}
	byLower := map[string]columnInfo{}

	for _, c := range info {
		byLower[strings.ToLower(c.name)] = c
	}

	for _, name := range timeColumns {
		if c, ok := byLower[name]; ok {
			layout.time = c.name

			break
		}
	}

	if layout.time == "" {
		return layout, errors.Newf(errors.ErrCodeMissingColumn, "series has no time column, want one of %v", timeColumns)
	}

	for _, field := range []string{types.ColumnOpen, types.ColumnHigh, types.ColumnLow, types.ColumnClose, types.ColumnVolume} {
		if c, ok := byLower[strings.ToLower(field)]; ok && c.numeric {
			layout.ohlcv[field] = c.name
		}
	}

	if _, ok := layout.ohlcv[types.ColumnClose]; !ok {
		return layout, errors.New(errors.ErrCodeMissingColumn, "series has no numeric close column")
	}

	taken := map[string]bool{layout.time: true}
	for _, name := range layout.ohlcv {
		taken[name] = true
	}

	for _, c := range info {
		if c.numeric && !taken[c.name] {
			layout.extra = append(layout.extra, c.name)
		}
	}

	return layout, nil
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ReadSeries implements DataSource. Missing open, high or low columns are
// filled from close; a missing volume column is zero. NULL values become NaN.
func (d *DuckDBDataSource) ReadSeries(ctx context.Context, start optional.Option[time.Time], end optional.Option[time.Time]) (*types.PriceSeries, error) {
	info, err := d.describe(ctx)
	if err != nil {
		return nil, err
	}

	layout, err := layoutOf(info)
	if err != nil {
		return nil, err
	}

	fields := []string{types.ColumnOpen, types.ColumnHigh, types.ColumnLow, types.ColumnClose, types.ColumnVolume}
	selects := []string{fmt.Sprintf("CAST(%s AS TIMESTAMP)", quote(layout.time))}

	for _, field := range fields {
		source, ok := layout.ohlcv[field]
		switch {
		case ok:
			selects = append(selects, fmt.Sprintf("CAST(%s AS DOUBLE)", quote(source)))
		case field == types.ColumnVolume:
			selects = append(selects, "CAST(0 AS DOUBLE)")
		default:
			selects = append(selects, fmt.Sprintf("CAST(%s AS DOUBLE)", quote(layout.ohlcv[types.ColumnClose])))
		}
	}

	for _, name := range layout.extra {
		selects = append(selects, fmt.Sprintf("CAST(%s AS DOUBLE)", quote(name)))
	}

	builder := d.sq.Select(selects...).From(viewName).OrderBy(quote(layout.time) + " ASC")

	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{quote(layout.time): start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{quote(layout.time): end.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build series query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query series", err)
	}
	defer rows.Close()

	series := &types.PriceSeries{Extra: map[string][]float64{}}
	extras := make([][]float64, len(layout.extra))
	values := make([]sql.NullFloat64, len(fields)+len(layout.extra))

	for rows.Next() {
		var ts time.Time

		targets := make([]any, 0, len(values)+1)
		targets = append(targets, &ts)

		for i := range values {
			targets = append(targets, &values[i])
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		series.Time = append(series.Time, ts)
		series.Open = append(series.Open, floatOrNaN(values[0]))
		series.High = append(series.High, floatOrNaN(values[1]))
		series.Low = append(series.Low, floatOrNaN(values[2]))
		series.Close = append(series.Close, floatOrNaN(values[3]))
		series.Volume = append(series.Volume, floatOrNaN(values[4]))

		for i := range layout.extra {
			extras[i] = append(extras[i], floatOrNaN(values[len(fields)+i]))
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	for i, name := range layout.extra {
		series.Extra[name] = extras[i]
	}

	d.logger.Debug("Read series",
		zap.String("path", d.path),
		zap.Int("bars", series.Len()),
		zap.Strings("extra", layout.extra),
	)

	return series, nil
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}

	return v.Float64
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}
