package resultstore

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func storePath(t *testing.T, kind Kind) string {
	dir := t.TempDir()
	if kind == KindBolt {
		return filepath.Join(dir, "results.db")
	}
	return dir
}

func sampleResults() []Result {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var out []Result
	for _, bench := range []string{"random", "runs_presorted"} {
		for _, alg := range []string{"timsort", "powersort"} {
			for _, size := range []int{1000, 100, 10000} {
				out = append(out, Result{
					Benchmark:   bench,
					Algorithm:   alg,
					DataSize:    size,
					Samples:     3,
					Comparisons: float64(size) * 9.5,
					Diff:        -1.25,
					Duration:    time.Duration(size) * time.Microsecond,
					CreatedAt:   created,
				})
			}
		}
	}
	return out
}

func TestStoreRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindBolt, KindBadger, KindPebble} {
		t.Run(string(kind), func(t *testing.T) {
			path := storePath(t, kind)
			s, err := Open(kind, path, Options{Logger: zaptest.NewLogger(t), ExpectedItems: 64})
			require.NoError(t, err)

			results := sampleResults()
			for _, r := range results {
				require.False(t, s.Has(r.Key()))
				require.NoError(t, s.Put(r))
				require.True(t, s.Has(r.Key()))
			}

			got, ok, err := s.Get(results[0].Key())
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, results[0], got)

			_, ok, err = s.Get(Key{Benchmark: "random", Algorithm: "timsort", DataSize: 7})
			require.NoError(t, err)
			require.False(t, ok)

			var sizes []string
			require.NoError(t, s.Scan("random", func(r Result) error {
				require.Equal(t, "random", r.Benchmark)
				sizes = append(sizes, fmt.Sprintf("%s/%d", r.Algorithm, r.DataSize))
				return nil
			}))
			require.Equal(t, []string{
				"powersort/100", "powersort/1000", "powersort/10000",
				"timsort/100", "timsort/1000", "timsort/10000",
			}, sizes)

			count := 0
			require.NoError(t, s.Scan("", func(Result) error { count++; return nil }))
			require.Equal(t, len(results), count)
			require.NoError(t, s.Close())

			// 다시 열면 블룸 필터가 기존 키로 채워져야 함
			s, err = Open(kind, path, Options{ReadOnly: true, ExpectedItems: 64})
			require.NoError(t, err)
			defer s.Close()
			for _, r := range results {
				require.True(t, s.Has(r.Key()), "%s", r.Key().Bytes())
			}
			require.False(t, s.Has(Key{Benchmark: "entropy_very_skewed", Algorithm: "timsort", DataSize: 100}))
			require.Error(t, s.Put(results[0]))
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	s, err := Open(KindBolt, storePath(t, KindBolt), Options{})
	require.NoError(t, err)
	defer s.Close()

	r := sampleResults()[0]
	require.NoError(t, s.Put(r))
	r.Comparisons = 1
	require.NoError(t, s.Put(r))

	got, ok, err := s.Get(r.Key())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1.0, got.Comparisons)
}

func TestStoreRejectsBadKeys(t *testing.T) {
	s, err := Open(KindPebble, storePath(t, KindPebble), Options{})
	require.NoError(t, err)
	defer s.Close()

	for _, r := range []Result{
		{Benchmark: "", Algorithm: "timsort", DataSize: 1},
		{Benchmark: "a/b", Algorithm: "timsort", DataSize: 1},
		{Benchmark: "random", Algorithm: "", DataSize: 1},
		{Benchmark: "random", Algorithm: "timsort", DataSize: -1},
	} {
		require.Error(t, s.Put(r), "%+v", r)
	}
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := Open(KindNone, t.TempDir(), Options{})
	require.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"bbolt", "Badger", "PEBBLE", "none"} {
		_, err := ParseKind(s)
		require.NoError(t, err, s)
	}
	_, err := ParseKind("leveldb")
	require.Error(t, err)
}

func TestKeyBytes(t *testing.T) {
	k := Key{Benchmark: "runs_random", Algorithm: "powersort", DataSize: 5000}
	assert.Equal(t, "runs_random/powersort/0000005000", string(k.Bytes()))
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("random0"), prefixEnd([]byte("random/")))
	assert.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
	assert.Nil(t, prefixEnd(nil))
}

func TestBloomFilter(t *testing.T) {
	bf := newBloomFilter(1000, 0.01)
	for i := range 1000 {
		bf.Add([]byte(fmt.Sprintf("key-%d", i)))
	}
	for i := range 1000 {
		require.True(t, bf.Contains([]byte(fmt.Sprintf("key-%d", i))))
	}

	falsePositives := 0
	for i := range 10000 {
		if bf.Contains([]byte(fmt.Sprintf("other-%d", i))) {
			falsePositives++
		}
	}
	assert.Less(t, falsePositives, 500)

	setBits, fill, fpr := bf.Stats()
	assert.NotZero(t, setBits)
	assert.Greater(t, fill, 0.0)
	assert.Less(t, fill, 1.0)
	assert.Less(t, fpr, 0.05)
	assert.Equal(t, uint64(1000), bf.numItems)
}

func TestDiskSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), make([]byte, 100), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b"), make([]byte, 23), 0o644))

	size, err := DiskSize(dir)
	require.NoError(t, err)
	require.EqualValues(t, 123, size)

	size, err = DiskSize(filepath.Join(dir, "a"))
	require.NoError(t, err)
	require.EqualValues(t, 100, size)

	_, err = DiskSize(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
