package datasource

import (
	"context"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-vector/internal/logger"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBDataSourceTestSuite struct {
	suite.Suite
	dir string
	ds  DataSource
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBDataSourceTestSuite))
}

func (suite *DuckDBDataSourceTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()

	ds, err := NewDataSource(":memory:", logger.NewNopLogger())
	suite.Require().NoError(err)

	suite.ds = ds
}

func (suite *DuckDBDataSourceTestSuite) TearDownTest() {
	suite.NoError(suite.ds.Close())
}

func (suite *DuckDBDataSourceTestSuite) writeFile(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

const sampleCSV = `time,open,high,low,close,volume,factor
2024-01-03 00:00:00,12,13,11,12.5,300,0.3
2024-01-01 00:00:00,10,11,9,10.5,100,0.1
2024-01-02 00:00:00,11,12,10,11.5,200,
`

func (suite *DuckDBDataSourceTestSuite) TestFormatOf() {
	suite.Equal(FormatCSV, FormatOf("a/b.CSV"))
	suite.Equal(FormatCSV, FormatOf("b.tsv"))
	suite.Equal(FormatParquet, FormatOf("b.parquet"))
	suite.Equal(FormatParquet, FormatOf("b"))
}

func (suite *DuckDBDataSourceTestSuite) TestReadCSV() {
	suite.Require().NoError(suite.ds.Initialize(suite.writeFile("bars.csv", sampleCSV)))

	count, err := suite.ds.Count(context.Background())
	suite.NoError(err)
	suite.Equal(3, count)

	series, err := suite.ds.ReadSeries(context.Background(), optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Equal(3, series.Len())

	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), series.Time[0].UTC())
	suite.Equal([]float64{10, 11, 12}, series.Open)
	suite.Equal([]float64{10.5, 11.5, 12.5}, series.Close)
	suite.Equal([]float64{100, 200, 300}, series.Volume)

	factor, err := series.Column("factor")
	suite.Require().NoError(err)
	suite.Equal(0.1, factor[0])
	suite.True(math.IsNaN(factor[1]))
	suite.Equal(0.3, factor[2])
}

func (suite *DuckDBDataSourceTestSuite) TestReadRange() {
	suite.Require().NoError(suite.ds.Initialize(suite.writeFile("bars.csv", sampleCSV)))

	series, err := suite.ds.ReadSeries(context.Background(),
		optional.Some(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		optional.None[time.Time](),
	)
	suite.Require().NoError(err)
	suite.Equal([]float64{11.5, 12.5}, series.Close)
}

func (suite *DuckDBDataSourceTestSuite) TestCloseOnlySeries() {
	path := suite.writeFile("close.csv", "date,Close\n2024-01-01,5\n2024-01-02,6\n")
	suite.Require().NoError(suite.ds.Initialize(path))

	series, err := suite.ds.ReadSeries(context.Background(), optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal([]float64{5, 6}, series.Open)
	suite.Equal([]float64{5, 6}, series.Low)
	suite.Equal([]float64{0, 0}, series.Volume)
	suite.Empty(series.Extra)
}

func (suite *DuckDBDataSourceTestSuite) TestMissingColumns() {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "no time", content: "open,close\n1,2\n"},
		{name: "no close", content: "time,open\n2024-01-01,1\n"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.Require().NoError(suite.ds.Initialize(suite.writeFile("bad.csv", tc.content)))

			_, err := suite.ds.ReadSeries(context.Background(), optional.None[time.Time](), optional.None[time.Time]())
			suite.True(errors.HasCode(err, errors.ErrCodeMissingColumn), "got %v", err)
		})
	}
}

func (suite *DuckDBDataSourceTestSuite) TestReadParquet() {
	csvPath := suite.writeFile("bars.csv", sampleCSV)
	parquetPath := filepath.Join(suite.dir, "bars.parquet")

	db, err := sql.Open("duckdb", "")
	suite.Require().NoError(err)
	defer db.Close()

	_, err = db.Exec(`COPY (SELECT * FROM read_csv_auto('` + csvPath + `')) TO '` + parquetPath + `' (FORMAT PARQUET)`)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.ds.Initialize(parquetPath))

	columns, err := suite.ds.Columns(context.Background())
	suite.NoError(err)
	suite.Equal([]string{"time", "open", "high", "low", "close", "volume", "factor"}, columns)

	series, err := suite.ds.ReadSeries(context.Background(), optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal([]float64{10.5, 11.5, 12.5}, series.Close)
}

func (suite *DuckDBDataSourceTestSuite) TestMissingFile() {
	err := suite.ds.Initialize(filepath.Join(suite.dir, "nope.parquet"))
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))

	_, err = suite.ds.ReadSeries(context.Background(), optional.None[time.Time](), optional.None[time.Time]())
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
}

