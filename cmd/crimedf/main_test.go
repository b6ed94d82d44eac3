package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = `State_Name,County_Clean,Year,Population,GDP_Per_Capita,Violent_Crime_Rate
A,X,2019,100,50,1
A,Y,2020,200,60,2
B,Z,2020,300,70,3
`

func run(t *testing.T, args ...string) string {
	dir := t.TempDir()
	t.Chdir(dir)
	require.Nil(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte(testData), 0o644))

	flagStates, flagYears = nil, nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--data", "data.csv", "--log-level", "error"))
	require.Nil(t, rootCmd.Execute())

	return out.String()
}

func TestSummary(t *testing.T) {
	out := run(t, "summary")
	assert.Contains(t, out, "records")
	assert.Contains(t, out, "2019 - 2020")
}

func TestDescribe(t *testing.T) {
	out := run(t, "describe", "GDP_Per_Capita", "--states", "A")
	assert.Contains(t, out, "55")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "out.json")
	run(t, "export", "--format", "json", "--years", "2020", "-o", fileName)

	b, e := os.ReadFile(fileName)
	require.Nil(t, e)

	var rows []map[string]any
	require.Nil(t, json.Unmarshal(b, &rows))
	assert.Len(t, rows, 2)
}

func TestMissingData(t *testing.T) {
	t.Chdir(t.TempDir())
	rootCmd.SetArgs([]string{"summary", "--data", "nope.csv", "--log-level", "error"})
	assert.NotNil(t, rootCmd.Execute())
}
