package main

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"runaware/inputgen"
	"runaware/resultstore"
	"runaware/runsort"
)

// contender 비교 횟수를 세는 정렬 하나
type contender struct {
	name  string // 저장소 키
	label string // 표 머리글
	sort  func(arr []int, cnt *runsort.Counter) []int
}

func timsortWith(opts runsort.Options) func([]int, *runsort.Counter) []int {
	return func(arr []int, cnt *runsort.Counter) []int { return runsort.Timsort(arr, opts, cnt) }
}

func powersortWith(opts runsort.Options) func([]int, *runsort.Counter) []int {
	return func(arr []int, cnt *runsort.Counter) []int { return runsort.Powersort(arr, opts, cnt) }
}

// standardContenders 머지소트가 첫 번째이자 기준
func standardContenders(opts runsort.Options) []contender {
	return []contender{
		{"merge_sort", "Merge Sort", mergeSort},
		{"natural_merge_sort", "Natural Merge Sort", runsort.NaturalMergeSort[int]},
		{"timsort", "Timsort", timsortWith(opts)},
		{"powersort", "Powersort", powersortWith(opts)},
		{"go_sort", "Go slices.SortStable", goSort},
	}
}

// generator 샘플 하나의 입력 생성
type generator func(rng *rand.Rand, n int) ([]int, error)

// benchmark 한 종류의 입력에 대해 크기별로 contender들을 비교하는 실험.
// 상대 차이는 첫 번째 contender 기준.
type benchmark struct {
	name       string
	title      string
	contenders []contender
	generate   generator
	// minSize 보다 작은 크기는 건너뜀
	minSize int
}

func randomBenchmark(cfg Config) benchmark {
	return benchmark{
		name:       "benchmark_random",
		title:      "Array size vs. # of key comparisons",
		contenders: standardContenders(cfg.sortOptions()),
		generate: func(rng *rand.Rand, n int) ([]int, error) {
			return inputgen.Uniform(rng, n, 0, n*cfg.ValueFactor+1)
		},
	}
}

func runsBenchmarks(cfg Config) []benchmark {
	var out []benchmark
	for _, rc := range cfg.runsConfigs() {
		factor := rc.factor
		out = append(out, benchmark{
			name:       "benchmark_runs_" + rc.name,
			title:      fmt.Sprintf("Array size vs. # of key comparisons (number of runs is N/%d => array is %s)", factor, rc.name),
			contenders: standardContenders(cfg.sortOptions()),
			generate: func(rng *rand.Rand, n int) ([]int, error) {
				return inputgen.WithRuns(rng, n, 0, n*cfg.ValueFactor, n/factor)
			},
			minSize: factor,
		})
	}
	return out
}

func entropyBenchmarks(cfg Config) []benchmark {
	var out []benchmark
	for _, ec := range cfg.entropyConfigs() {
		r := ec.EntropyRange
		out = append(out, benchmark{
			name: "benchmark_entropy_" + ec.name,
			title: fmt.Sprintf("Array size vs. # of key comparisons (entropy interval is %g%%-%g%% => run profile is %s)",
				r.From*100, r.To*100, ec.name),
			contenders: standardContenders(cfg.sortOptions()),
			generate: func(rng *rand.Rand, n int) ([]int, error) {
				return inputgen.WithEntropy(rng, n, 0, n*cfg.ValueFactor, r.From, r.To)
			},
			minSize: 4,
		})
	}
	return out
}

func minrunBenchmark(cfg Config) benchmark {
	without := cfg.sortOptions()
	without.MinRunLength = 0
	with := cfg.sortOptions()
	if with.MinRunLength == 0 {
		with.MinRunLength = runsort.MinRun
	}
	return benchmark{
		name:  "minrun_impact_comparisons",
		title: "Performance impact of MIN_RUN and using insertion sort for small runs",
		contenders: []contender{
			{"powersort_without_minrun", "Powersort without MIN_RUN", powersortWith(without)},
			{"powersort_with_minrun", fmt.Sprintf("Powersort with MIN_RUN=%d", with.MinRunLength), powersortWith(with)},
		},
		generate: randomBenchmark(cfg).generate,
	}
}

// gallopingBenchmark 런이 긴 입력에서 갤로핑 효과를 봄
func gallopingBenchmark(cfg Config) benchmark {
	plain := cfg.sortOptions()
	plain.Galloping, plain.DynamicThreshold = false, false
	galloping := plain
	galloping.Galloping = true
	dynamic := galloping
	dynamic.DynamicThreshold = true

	factor := 50
	if f, ok := cfg.Runs["presorted"]; ok {
		factor = f
	}
	return benchmark{
		name:  "galloping_impact_comparisons",
		title: fmt.Sprintf("Performance impact of galloping (number of runs is N/%d)", factor),
		contenders: []contender{
			{"powersort", "Powersort", powersortWith(plain)},
			{"powersort_galloping", "Powersort with galloping", powersortWith(galloping)},
			{"powersort_galloping_dynamic", "Powersort with galloping and dynamic threshold", powersortWith(dynamic)},
			{"timsort_galloping_dynamic", "Timsort with galloping and dynamic threshold", timsortWith(dynamic)},
		},
		generate: func(rng *rand.Rand, n int) ([]int, error) {
			return inputgen.WithRuns(rng, n, 0, n*cfg.ValueFactor, n/factor)
		},
		minSize: factor,
	}
}

// series 한 벤치마크의 결과. 열 순서는 contender 순서.
type series struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Samples int      `json:"samples"`
	Points  []point  `json:"points"`
}

type point struct {
	Size int `json:"size"`
	// Diffs 첫 번째 열 대비 평균 상대 차이 (n - n0) / n0
	Diffs []float64 `json:"diffs"`
	// Comparisons 평균 비교 횟수
	Comparisons []float64       `json:"comparisons"`
	Durations   []time.Duration `json:"durations"`
}

// runner 벤치마크를 실행하고 결과를 저장소에 남김
type runner struct {
	cfg    Config
	log    *zap.Logger
	store  resultstore.Store // nil이면 저장 안 함
	resume bool
	pool   *workerPool
}

func newRunner(cfg Config, log *zap.Logger, store resultstore.Store, resume bool) *runner {
	return &runner{cfg: cfg, log: log, store: store, resume: resume, pool: newWorkerPool(cfg.Workers)}
}

func (r *runner) run(b benchmark) (*series, error) {
	s := &series{Name: b.name, Title: b.title, Samples: r.cfg.Samples}
	for _, c := range b.contenders {
		s.Columns = append(s.Columns, c.label)
	}

	fmt.Printf("%s 테스트 중...\n", b.name)
	for _, size := range r.cfg.sizes() {
		if size < b.minSize {
			continue
		}
		if p, ok := r.stored(b, size); ok {
			r.log.Info("datapoint already stored, skipping", zap.String("benchmark", b.name), zap.Int("size", size))
			s.Points = append(s.Points, p)
			continue
		}

		start := time.Now()
		p, err := r.measure(b, size)
		if err != nil {
			return nil, errors.Wrapf(err, "%s, size %d", b.name, size)
		}
		s.Points = append(s.Points, p)
		fmt.Printf("  %d개 데이터 - %v\n", size, time.Since(start).Round(time.Millisecond))

		if err := r.save(b, p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// measure 샘플들을 워커 풀에서 동시에 돌리고 평균을 냄
func (r *runner) measure(b benchmark, size int) (point, error) {
	samples := r.cfg.Samples
	comparisons := make([][]int64, samples)
	durations := make([][]time.Duration, samples)

	for i := range samples {
		// 샘플마다 시드를 고정해서 실행 순서와 무관하게 재현됨
		seed := r.cfg.Seed + int64(size)*1_000_003 + int64(i)
		r.pool.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			data, err := b.generate(rng, size)
			if err != nil {
				return err
			}
			comparisons[i] = make([]int64, len(b.contenders))
			durations[i] = make([]time.Duration, len(b.contenders))
			var cnt runsort.Counter
			for j, c := range b.contenders {
				cnt.Reset()
				start := time.Now()
				sorted := c.sort(slices.Clone(data), &cnt)
				durations[i][j] = time.Since(start)
				if len(sorted) != size {
					return errors.AssertionFailedf("%s returned %d elements, want %d", c.name, len(sorted), size)
				}
				comparisons[i][j] = cnt.Comparisons()
			}
			return nil
		})
	}
	if err := r.pool.Wait(); err != nil {
		return point{}, err
	}

	p := point{
		Size:        size,
		Diffs:       make([]float64, len(b.contenders)),
		Comparisons: make([]float64, len(b.contenders)),
		Durations:   make([]time.Duration, len(b.contenders)),
	}
	for i := range samples {
		for j := range b.contenders {
			p.Diffs[j] += relativeDiff(comparisons[i][j], comparisons[i][0])
			p.Comparisons[j] += float64(comparisons[i][j])
			p.Durations[j] += durations[i][j]
		}
	}
	for j := range b.contenders {
		p.Diffs[j] /= float64(samples)
		p.Comparisons[j] /= float64(samples)
		p.Durations[j] /= time.Duration(samples)
	}
	return p, nil
}

// relativeDiff (n - base) / base. 기준이 0이면 0.
func relativeDiff(n, base int64) float64 {
	if base == 0 {
		return 0
	}
	return float64(n-base) / float64(base)
}

// stored resume 모드에서 모든 contender 결과가 이미 있으면 저장된 점을 돌려줌
func (r *runner) stored(b benchmark, size int) (point, bool) {
	if !r.resume || r.store == nil {
		return point{}, false
	}
	p := point{Size: size}
	for _, c := range b.contenders {
		k := resultstore.Key{Benchmark: b.name, Algorithm: c.name, DataSize: size}
		if !r.store.Has(k) {
			return point{}, false
		}
		res, ok, err := r.store.Get(k)
		if err != nil || !ok {
			r.log.Warn("stored result unreadable", zap.ByteString("key", k.Bytes()), zap.Error(err))
			return point{}, false
		}
		p.Diffs = append(p.Diffs, res.Diff)
		p.Comparisons = append(p.Comparisons, res.Comparisons)
		p.Durations = append(p.Durations, res.Duration)
	}
	return p, true
}

func (r *runner) save(b benchmark, p point) error {
	if r.store == nil {
		return nil
	}
	now := time.Now()
	for j, c := range b.contenders {
		res := resultstore.Result{
			Benchmark:   b.name,
			Algorithm:   c.name,
			DataSize:    p.Size,
			Samples:     r.cfg.Samples,
			Comparisons: p.Comparisons[j],
			Diff:        p.Diffs[j],
			Duration:    p.Durations[j],
			CreatedAt:   now,
		}
		if err := r.store.Put(res); err != nil {
			return errors.Wrapf(err, "store %s/%s/%d", b.name, c.name, p.Size)
		}
	}
	r.log.Debug("datapoint stored", zap.String("benchmark", b.name), zap.Int("size", p.Size))
	return nil
}

// check 무작위 입력 100개(길이 1000, 값 [0, 1000))에 대해 모든 정렬이 slices.Sort와 같은지 확인
func check(cfg Config, log *zap.Logger) error {
	const (
		rounds = 100
		size   = 1000
	)
	var contenders []contender
	contenders = append(contenders, standardContenders(cfg.sortOptions())...)
	contenders = append(contenders, gallopingBenchmark(cfg).contenders...)
	contenders = append(contenders, contender{"quick_sort", "Quick Sort", quickSort})

	rng := rand.New(rand.NewSource(cfg.Seed))
	for round := range rounds {
		data, err := inputgen.Uniform(rng, size, 0, 1000)
		if err != nil {
			return err
		}
		want := slices.Clone(data)
		slices.Sort(want)
		for _, c := range contenders {
			got := c.sort(slices.Clone(data), nil)
			if !slices.Equal(got, want) {
				return errors.Newf("%s produced a wrong result in round %d", c.name, round)
			}
		}
	}
	log.Info("all algorithms agree with slices.Sort", zap.Int("rounds", rounds), zap.Int("algorithms", len(contenders)))
	fmt.Printf("검사 완료: %d개 알고리즘, %d회 모두 통과\n", len(contenders), rounds)
	return nil
}
