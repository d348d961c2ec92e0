package main

import (
	"cmp"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"runaware/resultstore"
	"runaware/runsort"
)

const defaultConfigFile = "benchmark.toml"

// SizeRange [From, To) 구간을 Step 간격으로
type SizeRange struct {
	From int `toml:"from"`
	To   int `toml:"to"`
	Step int `toml:"step"`
}

// EntropyRange 정규화 엔트로피 허용 구간
type EntropyRange struct {
	From float64 `toml:"from"`
	To   float64 `toml:"to"`
}

// Config 벤치마크 설정 (benchmark.toml)
type Config struct {
	// Samples 크기마다 생성하는 입력 개수
	Samples int   `toml:"samples"`
	Seed    int64 `toml:"seed"`
	// ValueFactor 원소 값 범위는 [0, n*ValueFactor]
	ValueFactor int         `toml:"value_factor"`
	Sizes       []SizeRange `toml:"sizes"`
	// Runs 이름 -> 평균 런 길이. 런 개수는 n/값.
	Runs    map[string]int          `toml:"runs"`
	Entropy map[string]EntropyRange `toml:"entropy"`

	MinRun             int  `toml:"min_run"`
	Galloping          bool `toml:"galloping"`
	DynamicThreshold   bool `toml:"dynamic_threshold"`
	GallopingThreshold int  `toml:"galloping_threshold"`

	Workers int    `toml:"workers"`
	Output  string `toml:"output"`
	Store   string `toml:"store"`
	DB      string `toml:"db"`
}

func defaultConfig() Config {
	return Config{
		Samples:     10,
		Seed:        42,
		ValueFactor: 10,
		Sizes: []SizeRange{
			{From: 100, To: 1000, Step: 100},
			{From: 1000, To: 10_000, Step: 1000},
			{From: 10_000, To: 100_000, Step: 10_000},
		},
		Runs: map[string]int{
			"random":            2,
			"presorted":         50,
			"heavily_presorted": 500,
		},
		Entropy: map[string]EntropyRange{
			"very_skewed":       {From: .1, To: .2},
			"partially_uniform": {From: .4, To: .6},
			"heavily_uniform":   {From: .9, To: 1.},
		},
		MinRun:             runsort.MinRun,
		GallopingThreshold: runsort.InitialGallopingThreshold,
		Workers:            runtime.NumCPU(),
		Output:             "output",
		Store:              string(resultstore.KindNone),
		DB:                 "results.db",
	}
}

// loadConfig 기본값 위에 path의 설정을 덮어씀.
// 기본 설정 파일이 없으면 기본값 그대로 사용.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && path == defaultConfigFile {
		return cfg, nil
	}

	// 맵은 병합되지 않고 파일 값으로 통째로 바뀌어야 함
	defaults := cfg
	cfg.Runs, cfg.Entropy = nil, nil
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "decode %s", path)
	}
	if !md.IsDefined("runs") {
		cfg.Runs = defaults.Runs
	}
	if !md.IsDefined("entropy") {
		cfg.Entropy = defaults.Entropy
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.Newf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Samples < 1 {
		return errors.Newf("samples must be positive, got %d", c.Samples)
	}
	if c.ValueFactor < 1 {
		return errors.Newf("value_factor must be positive, got %d", c.ValueFactor)
	}
	for _, r := range c.Sizes {
		if r.From < 1 || r.Step < 1 || r.To < r.From {
			return errors.Newf("invalid size range %+v", r)
		}
	}
	for name, factor := range c.Runs {
		if factor < 2 {
			return errors.Newf("runs.%s: average run length must be >= 2, got %d", name, factor)
		}
	}
	for name, r := range c.Entropy {
		if r.From < 0 || r.To > 1 || r.From > r.To {
			return errors.Newf("entropy.%s: invalid range [%g, %g]", name, r.From, r.To)
		}
	}
	if c.MinRun < 0 {
		return errors.Newf("min_run must not be negative, got %d", c.MinRun)
	}
	if c.Workers < 1 {
		return errors.Newf("workers must be positive, got %d", c.Workers)
	}
	if _, err := resultstore.ParseKind(c.Store); err != nil {
		return err
	}
	return nil
}

// sizes 모든 구간을 펼친 배열 크기 목록
func (c Config) sizes() []int {
	var out []int
	for _, r := range c.Sizes {
		for n := r.From; n < r.To; n += r.Step {
			out = append(out, n)
		}
	}
	return out
}

// sortOptions Timsort, Powersort에 넘길 옵션
func (c Config) sortOptions() runsort.Options {
	return runsort.Options{
		MinRunLength:       c.MinRun,
		Galloping:          c.Galloping,
		DynamicThreshold:   c.DynamicThreshold,
		GallopingThreshold: c.GallopingThreshold,
	}
}

type namedRuns struct {
	name   string
	factor int
}

// runsConfigs 평균 런 길이 오름차순
func (c Config) runsConfigs() []namedRuns {
	out := make([]namedRuns, 0, len(c.Runs))
	for name, factor := range c.Runs {
		out = append(out, namedRuns{name, factor})
	}
	slices.SortFunc(out, func(a, b namedRuns) int {
		return cmp.Or(cmp.Compare(a.factor, b.factor), strings.Compare(a.name, b.name))
	})
	return out
}

type namedEntropy struct {
	name string
	EntropyRange
}

// entropyConfigs 구간 시작 오름차순
func (c Config) entropyConfigs() []namedEntropy {
	out := make([]namedEntropy, 0, len(c.Entropy))
	for name, r := range c.Entropy {
		out = append(out, namedEntropy{name, r})
	}
	slices.SortFunc(out, func(a, b namedEntropy) int {
		return cmp.Or(cmp.Compare(a.From, b.From), strings.Compare(a.name, b.name))
	})
	return out
}
