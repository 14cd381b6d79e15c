package commands

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `,Timestamp,Product desc,country_3,cluster_cows,Price
0,2018,Raw Milk,IRL,0,30.0
1,2018,Raw Milk,DEU,1,32.0
2,2016,Butter,DEU,1,310.0
3,2012,Butter,DEU,1,290.0
`

// setup isolates the command from the caller's environment and returns a
// working directory holding prices.csv.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	for _, key := range []string{"DAIRY_CONFIG_FILE", "DAIRY_DATA_CSV_PATH", "DAIRY_STORAGE_DRIVER", "DAIRY_LOGGING_LEVEL"} {
		if val, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, val) })
		}
	}
	t.Setenv("DAIRY_LOGGING_LEVEL", "error")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prices.csv"), []byte(sampleCSV), 0o644))
	return dir
}

func run(args ...string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestExportCommand(t *testing.T) {
	dir := setup(t)
	out := filepath.Join(dir, "out.xlsx")

	require.NoError(t, run("export", "--data", "prices.csv", "--cluster", "1", "--product", "Butter", "-o", out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Map", "DEU"}, f.GetSheetList())

	rows, err := f.GetRows("DEU")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExportCommand_InvalidSelection(t *testing.T) {
	setup(t)

	assert.Error(t, run("export", "--data", "prices.csv", "--cluster", "4"))
	assert.Error(t, run("export", "--data", "prices.csv", "--product", "Cheese"))
}

func TestChartCommands(t *testing.T) {
	dir := setup(t)

	mapOut := filepath.Join(dir, "map.png")
	require.NoError(t, run("chart", "map", "--data", "prices.csv", "--cluster", "2", "-o", mapOut))

	seriesOut := filepath.Join(dir, "series.png")
	require.NoError(t, run("chart", "series", "--data", "prices.csv", "--country", "DEU", "--product", "Butter", "-o", seriesOut))

	for _, path := range []string{mapOut, seriesOut} {
		f, err := os.Open(path)
		require.NoError(t, err)
		_, err = png.Decode(f)
		f.Close()
		assert.NoError(t, err, path)
	}
}

func TestMissingDataFileIsFatal(t *testing.T) {
	setup(t)

	err := run("export", "--data", "absent.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load dataset")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
