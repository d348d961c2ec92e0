package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"runaware/resultstore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var kind, db, benchmark string
	cmd := &cobra.Command{
		Use:          "report",
		Short:        "Print stored benchmark results",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := resultstore.ParseKind(kind)
			if err != nil {
				return err
			}
			if k == resultstore.KindNone {
				return errors.New("report needs a store (bbolt, badger or pebble)")
			}

			log, err := zap.NewProduction()
			if err != nil {
				return errors.Wrap(err, "create logger")
			}
			defer log.Sync()

			store, err := resultstore.Open(k, db, resultstore.Options{ReadOnly: true, Logger: log})
			if err != nil {
				return err
			}
			defer store.Close()

			tables, err := collect(store, benchmark)
			if err != nil {
				return err
			}
			size, err := resultstore.DiskSize(db)
			if err != nil {
				log.Warn("cannot measure store size", zap.String("path", db), zap.Error(err))
			}
			printTables(cmd.OutOrStdout(), k, size, tables)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "store", string(resultstore.KindBolt), "result store: bbolt, badger or pebble")
	cmd.Flags().StringVar(&db, "db", "results.db", "result store path")
	cmd.Flags().StringVar(&benchmark, "benchmark", "", "only this benchmark")
	return cmd
}

// table 한 벤치마크의 결과. 행은 배열 크기, 열은 알고리즘.
type table struct {
	benchmark  string
	algorithms []string
	sizes      []int
	cells      map[string]map[int]resultstore.Result
}

// collect 저장소를 키 순서대로 읽어서 벤치마크별 표로 모음
func collect(store resultstore.Store, benchmark string) ([]*table, error) {
	var tables []*table
	byName := map[string]*table{}
	err := store.Scan(benchmark, func(r resultstore.Result) error {
		t, ok := byName[r.Benchmark]
		if !ok {
			t = &table{benchmark: r.Benchmark, cells: map[string]map[int]resultstore.Result{}}
			byName[r.Benchmark] = t
			tables = append(tables, t)
		}
		row, ok := t.cells[r.Algorithm]
		if !ok {
			row = map[int]resultstore.Result{}
			t.cells[r.Algorithm] = row
			t.algorithms = append(t.algorithms, r.Algorithm)
		}
		row[r.DataSize] = r
		if !slices.Contains(t.sizes, r.DataSize) {
			t.sizes = append(t.sizes, r.DataSize)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan store")
	}
	for _, t := range tables {
		slices.Sort(t.sizes)
	}
	return tables, nil
}

const columnWidth = 24

func printTables(w io.Writer, kind resultstore.Kind, diskSize int64, tables []*table) {
	fmt.Fprintf(w, "저장소: %s (%s)\n", kind, humanize.IBytes(uint64(diskSize)))
	if len(tables) == 0 {
		fmt.Fprintln(w, "저장된 결과가 없습니다.")
		return
	}
	for _, t := range tables {
		line := strings.Repeat("=", 16+(columnWidth+3)*len(t.algorithms))
		fmt.Fprintf(w, "\n--- %s ---\n", t.benchmark)
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "%-16s", "배열 크기")
		for _, algo := range t.algorithms {
			fmt.Fprintf(w, " | %-*s", columnWidth, algo)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Repeat("-", len(line)))
		for _, size := range t.sizes {
			fmt.Fprintf(w, "%-16s", humanize.Comma(int64(size)))
			for _, algo := range t.algorithms {
				cell := "-"
				if r, ok := t.cells[algo][size]; ok {
					cell = fmt.Sprintf("%s (%+.2f%%)", humanize.Commaf(r.Comparisons), r.Diff*100)
				}
				fmt.Fprintf(w, " | %-*s", columnWidth, cell)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, line)
	}
}
