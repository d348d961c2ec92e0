// Package resultstore 벤치마크 결과를 키-값 저장소에 보관한다.
// 백엔드는 bbolt, BadgerDB, PebbleDB 중 하나를 고를 수 있고,
// 어떤 백엔드든 키 존재 여부는 블룸 필터를 먼저 거쳐서 확인함.
package resultstore

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Kind 저장소 백엔드 종류
type Kind string

const (
	KindBolt   Kind = "bbolt"
	KindBadger Kind = "badger"
	KindPebble Kind = "pebble"
	KindNone   Kind = "none"
)

// ParseKind 문자열을 Kind로 변환
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindBolt, KindBadger, KindPebble, KindNone:
		return k, nil
	}
	return "", errors.Newf("unknown store kind %q (want bbolt, badger, pebble or none)", s)
}

// Result 한 데이터 포인트(벤치마크, 알고리즘, 배열 크기)의 집계 결과
type Result struct {
	Benchmark   string        `json:"benchmark"`
	Algorithm   string        `json:"algorithm"`
	DataSize    int           `json:"data_size"`
	Samples     int           `json:"samples"`
	Comparisons float64       `json:"comparisons"`
	Diff        float64       `json:"diff_from_merge_sort"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Key 결과의 키
func (r Result) Key() Key {
	return Key{Benchmark: r.Benchmark, Algorithm: r.Algorithm, DataSize: r.DataSize}
}

// Key 저장소 키. 바이트로는 benchmark/algorithm/0000001000 형태라서
// 같은 벤치마크 안에서 알고리즘, 크기 순으로 정렬됨.
type Key struct {
	Benchmark string
	Algorithm string
	DataSize  int
}

func (k Key) validate() error {
	if k.Benchmark == "" || strings.Contains(k.Benchmark, "/") {
		return errors.Newf("invalid benchmark name %q", k.Benchmark)
	}
	if k.Algorithm == "" || strings.Contains(k.Algorithm, "/") {
		return errors.Newf("invalid algorithm name %q", k.Algorithm)
	}
	if k.DataSize < 0 {
		return errors.Newf("invalid data size %d", k.DataSize)
	}
	return nil
}

// Bytes 키의 바이트 표현
func (k Key) Bytes() []byte {
	return []byte(fmt.Sprintf("%s/%s/%010d", k.Benchmark, k.Algorithm, k.DataSize))
}

func benchmarkPrefix(benchmark string) []byte {
	if benchmark == "" {
		return nil
	}
	return []byte(benchmark + "/")
}

// Store 결과 저장소
type Store interface {
	Put(r Result) error
	Get(k Key) (Result, bool, error)
	// Has 블룸 필터에서 없다고 하면 백엔드를 보지 않음
	Has(k Key) bool
	// Scan benchmark에 속한 결과를 키 순서대로 순회. benchmark가 비어있으면 전체.
	Scan(benchmark string, fn func(Result) error) error
	Close() error
}

// backend 백엔드별 바이트 수준 연산
type backend interface {
	put(key, val []byte) error
	get(key []byte) ([]byte, bool, error)
	// scan fn에 넘기는 슬라이스는 콜백 안에서만 유효
	scan(prefix []byte, fn func(key, val []byte) error) error
	close() error
}

// Options 저장소 열기 옵션
type Options struct {
	ReadOnly bool
	// ExpectedItems 블룸 필터 크기 산정용. 0이면 기본값.
	ExpectedItems uint64
	Logger        *zap.Logger
}

const (
	defaultExpectedItems = 100_000
	bloomFalsePositive   = 0.001
)

// Open path에 kind 백엔드 저장소를 열고 기존 키로 블룸 필터를 채움
func Open(kind Kind, path string, opts Options) (Store, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var b backend
	var err error
	switch kind {
	case KindBolt:
		b, err = openBolt(path, opts.ReadOnly)
	case KindBadger:
		b, err = openBadger(path, opts.ReadOnly)
	case KindPebble:
		b, err = openPebble(path, opts.ReadOnly)
	default:
		return nil, errors.Newf("cannot open store of kind %q", kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s store at %s", kind, path)
	}

	expected := opts.ExpectedItems
	if expected == 0 {
		expected = defaultExpectedItems
	}
	s := &store{
		b:        b,
		bloom:    newBloomFilter(expected, bloomFalsePositive),
		log:      log.With(zap.String("store", string(kind)), zap.String("path", path)),
		readOnly: opts.ReadOnly,
	}
	if err := b.scan(nil, func(key, _ []byte) error {
		s.bloom.Add(key)
		return nil
	}); err != nil {
		_ = b.close()
		return nil, errors.Wrap(err, "index existing keys")
	}
	setBits, fill, fpr := s.bloom.Stats()
	s.log.Debug("store opened",
		zap.Uint64("keys", s.bloom.numItems),
		zap.Uint64("bloom_set_bits", setBits),
		zap.Float64("bloom_fill", fill),
		zap.Float64("bloom_fpr", fpr))
	return s, nil
}

type store struct {
	b        backend
	bloom    *bloomFilter
	log      *zap.Logger
	readOnly bool
}

func (s *store) Put(r Result) error {
	if s.readOnly {
		return errors.New("store is read-only")
	}
	k := r.Key()
	if err := k.validate(); err != nil {
		return err
	}
	val, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	key := k.Bytes()
	if err := s.b.put(key, val); err != nil {
		return errors.Wrapf(err, "put %s", key)
	}
	s.bloom.Add(key)
	return nil
}

func (s *store) Get(k Key) (Result, bool, error) {
	if err := k.validate(); err != nil {
		return Result{}, false, err
	}
	val, ok, err := s.b.get(k.Bytes())
	if err != nil || !ok {
		return Result{}, false, err
	}
	var r Result
	if err := json.Unmarshal(val, &r); err != nil {
		return Result{}, false, errors.Wrapf(err, "decode %s", k.Bytes())
	}
	return r, true, nil
}

func (s *store) Has(k Key) bool {
	key := k.Bytes()
	if !s.bloom.Contains(key) {
		return false
	}
	_, ok, err := s.b.get(key)
	if err != nil {
		s.log.Warn("lookup failed", zap.ByteString("key", key), zap.Error(err))
		return false
	}
	if !ok {
		s.log.Debug("bloom false positive", zap.ByteString("key", key))
	}
	return ok
}

func (s *store) Scan(benchmark string, fn func(Result) error) error {
	return s.b.scan(benchmarkPrefix(benchmark), func(key, val []byte) error {
		var r Result
		if err := json.Unmarshal(val, &r); err != nil {
			return errors.Wrapf(err, "decode %s", key)
		}
		return fn(r)
	})
}

func (s *store) Close() error {
	return s.b.close()
}

// prefixEnd prefix로 시작하는 키들의 배타적 상한. 없으면 nil.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// DiskSize path가 디렉터리면 안의 파일 크기 합, 파일이면 그 크기
func DiskSize(path string) (int64, error) {
	var size int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	return size, err
}
