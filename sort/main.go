package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"runaware/inputgen"
	"runaware/resultstore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app 명령들이 공유하는 플래그와 상태
type app struct {
	configPath string
	out        string
	storeKind  string
	db         string
	workers    int
	samples    int
	resume     bool
	verbose    bool

	cfg   Config
	log   *zap.Logger
	store resultstore.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:                "sort",
		Short:              "Run-aware merge sort comparison benchmarks",
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", defaultConfigFile, "benchmark configuration file")
	flags.StringVar(&a.out, "out", "", "output directory (overrides config)")
	flags.StringVar(&a.storeKind, "store", "", "result store: bbolt, badger, pebble or none (overrides config)")
	flags.StringVar(&a.db, "db", "", "result store path (overrides config)")
	flags.IntVar(&a.workers, "workers", 0, "concurrent samples (overrides config)")
	flags.IntVar(&a.samples, "samples", 0, "samples per datapoint (overrides config)")
	flags.BoolVar(&a.resume, "resume", false, "skip datapoints already in the result store")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "check",
			Short: "Cross-check every algorithm against slices.Sort",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return check(a.cfg, a.log)
			},
		},
		a.seriesCmd("random", "Array size vs. comparisons on uniformly random input", func(cfg Config) []benchmark {
			return []benchmark{randomBenchmark(cfg)}
		}),
		a.seriesCmd("runs", "One series per runs configuration", runsBenchmarks),
		a.seriesCmd("entropy", "One series per run-profile entropy configuration", entropyBenchmarks),
		a.seriesCmd("minrun", "Powersort with and without MIN_RUN", func(cfg Config) []benchmark {
			return []benchmark{minrunBenchmark(cfg)}
		}),
		a.seriesCmd("galloping", "Powersort with and without galloping", func(cfg Config) []benchmark {
			return []benchmark{gallopingBenchmark(cfg)}
		}),
		a.seriesCmd("all", "Every comparison benchmark", allBenchmarks),
		&cobra.Command{
			Use:   "timing",
			Short: "Wall-clock and allocation benchmark on memory and file inputs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.timing()
			},
		},
	)
	return root
}

func allBenchmarks(cfg Config) []benchmark {
	out := []benchmark{minrunBenchmark(cfg), randomBenchmark(cfg)}
	out = append(out, runsBenchmarks(cfg)...)
	out = append(out, entropyBenchmarks(cfg)...)
	return append(out, gallopingBenchmark(cfg))
}

// setup 설정 파일을 읽고 플래그로 덮어쓴 뒤 로거를 만듦
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output = a.out
	}
	if flags.Changed("store") {
		cfg.Store = a.storeKind
	}
	if flags.Changed("db") {
		cfg.DB = a.db
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if flags.Changed("samples") {
		cfg.Samples = a.samples
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.verbose {
		a.log, err = zap.NewDevelopment()
	} else {
		a.log, err = zap.NewProduction()
	}
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	a.log.Debug("config loaded",
		zap.String("file", a.configPath),
		zap.Int("samples", cfg.Samples),
		zap.Ints("sizes", cfg.sizes()),
		zap.Int("workers", cfg.Workers),
		zap.String("store", cfg.Store))
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

func (a *app) openStore() error {
	kind, err := resultstore.ParseKind(a.cfg.Store)
	if err != nil || kind == resultstore.KindNone {
		return err
	}
	a.store, err = resultstore.Open(kind, a.cfg.DB, resultstore.Options{Logger: a.log})
	return err
}

func (a *app) seriesCmd(use, short string, build func(Config) []benchmark) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.openStore(); err != nil {
				return err
			}
			r := newRunner(a.cfg, a.log, a.store, a.resume)

			fmt.Printf("CPU 코어 수: %d, 워커 수: %d, 샘플 수: %d\n\n", runtime.NumCPU(), a.cfg.Workers, a.cfg.Samples)
			for _, b := range build(a.cfg) {
				s, err := r.run(b)
				if err != nil {
					a.log.Error("benchmark failed", zap.String("benchmark", b.name), zap.Error(err))
					return err
				}
				files, err := writeSeries(a.cfg.Output, s)
				if err != nil {
					return errors.Wrapf(err, "write %s", b.name)
				}
				a.log.Info("benchmark done", zap.String("benchmark", b.name), zap.Int("points", len(s.Points)), zap.Strings("files", files))
			}
			fmt.Println("벤치마크 완료!")
			return nil
		},
	}
}

// timing 1천, 1만개는 메모리에서, 10만개는 매번 파일에서 읽어서 3번씩 측정
func (a *app) timing() error {
	const runs = 3
	opts := a.cfg.sortOptions()
	contenders := append(standardContenders(opts), contender{"quick_sort", "Quick Sort", quickSort})
	names := make(map[string]string, len(contenders))
	for _, c := range contenders {
		names[c.name] = c.label
	}
	if err := os.MkdirAll(a.cfg.Output, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	fmt.Println("정렬 알고리즘 시간 측정 시작...")
	fmt.Printf("CPU 코어 수: %d\n", runtime.NumCPU())
	fmt.Printf("GOMAXPROCS: %d\n\n", runtime.GOMAXPROCS(0))

	rng := rand.New(rand.NewSource(a.cfg.Seed))
	var all []TimingResult
	measure := func(size int, storage string, load func() ([]int, error)) error {
		fmt.Printf("%d개 데이터 (%s) 테스트 중...\n", size, storage)
		for _, c := range contenders {
			for run := 1; run <= runs; run++ {
				data, err := load()
				if err != nil {
					return err
				}
				res, err := runTimed(c, data, storage)
				if err != nil {
					return err
				}
				res.TestRun = run
				all = append(all, res)
				fmt.Printf("  %s - 테스트 %d: %v\n", c.label, run, res.Duration)
				time.Sleep(50 * time.Millisecond) // 시스템 안정화
			}
		}
		return nil
	}

	for _, size := range []int{1000, 10_000} {
		data, err := inputgen.Uniform(rng, size, 0, 1_000_000)
		if err != nil {
			return err
		}
		if err := measure(size, "memory", func() ([]int, error) { return data, nil }); err != nil {
			return err
		}
	}

	const fileSize = 100_000
	data, err := inputgen.Uniform(rng, fileSize, 0, 1_000_000)
	if err != nil {
		return err
	}
	filename := filepath.Join(a.cfg.Output, "test_data_100k.txt")
	if err := writeDataToFile(data, filename); err != nil {
		return errors.Wrap(err, "write input file")
	}
	defer os.Remove(filename)
	if err := measure(fileSize, "file", func() ([]int, error) { return readDataFromFile(filename) }); err != nil {
		return err
	}

	mdPath, err := saveTimingToMarkdown(a.cfg.Output, all, names)
	if err != nil {
		return errors.Wrap(err, "markdown")
	}
	jsonPath, err := saveResultsToJSON(a.cfg.Output, "timing_results", all)
	if err != nil {
		return errors.Wrap(err, "json")
	}
	a.log.Info("timing done", zap.Int("results", len(all)), zap.Strings("files", []string{mdPath, jsonPath}))
	fmt.Println("벤치마크 완료!")
	return nil
}
