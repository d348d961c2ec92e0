package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"runaware/resultstore"
)

func seedStore(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "results.db")
	store, err := resultstore.Open(resultstore.KindBolt, path, resultstore.Options{})
	require.NoError(t, err)
	for _, r := range []resultstore.Result{
		{Benchmark: "benchmark_random", Algorithm: "merge_sort", DataSize: 1000, Comparisons: 8700},
		{Benchmark: "benchmark_random", Algorithm: "merge_sort", DataSize: 200, Comparisons: 1300},
		{Benchmark: "benchmark_random", Algorithm: "timsort", DataSize: 1000, Comparisons: 8874, Diff: 0.02},
		{Benchmark: "minrun_impact_comparisons", Algorithm: "powersort_with_minrun", DataSize: 200, Comparisons: 1250, Diff: -0.0125},
	} {
		require.NoError(t, store.Put(r))
	}
	require.NoError(t, store.Close())
	return path
}

func TestCollect(t *testing.T) {
	store, err := resultstore.Open(resultstore.KindBolt, seedStore(t), resultstore.Options{ReadOnly: true})
	require.NoError(t, err)
	defer store.Close()

	tables, err := collect(store, "")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	require.Equal(t, "benchmark_random", tables[0].benchmark)
	require.Equal(t, []string{"merge_sort", "timsort"}, tables[0].algorithms)
	require.Equal(t, []int{200, 1000}, tables[0].sizes)

	tables, err = collect(store, "minrun_impact_comparisons")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Equal(t, []int{200}, tables[0].sizes)
}

func TestReportCommand(t *testing.T) {
	path := seedStore(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--store", "bbolt", "--db", path, "--benchmark", "benchmark_random"})
	require.NoError(t, cmd.Execute())

	text := out.String()
	require.Contains(t, text, "--- benchmark_random ---")
	require.Contains(t, text, "8,874 (+2.00%)")
	require.Contains(t, text, "1,300 (+0.00%)")
	require.NotContains(t, text, "minrun_impact_comparisons")

	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--store", "none"})
	require.Error(t, cmd.Execute())
}
