package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"

	"runaware/runsort"
)

const (
	rawDataDir   = "raw_data"
	csvDelimiter = ','
)

// saveResultsToCSV raw_data/<name>.csv. 첫 줄은 머리글, 값은 상대 차이.
func saveResultsToCSV(dir string, s *series) (string, error) {
	path := filepath.Join(dir, rawDataDir, s.Name+".csv")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "create raw data directory")
	}
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = csvDelimiter

	header := []string{"Array size [-]"}
	for _, c := range s.Columns {
		header = append(header, c+" [%]")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, p := range s.Points {
		row := []string{strconv.Itoa(p.Size)}
		for _, d := range p.Diffs {
			row = append(row, strconv.FormatFloat(d, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}

// saveResultsToMarkdown <name>.md 크기별 평균 비교 횟수와 상대 차이 표
func saveResultsToMarkdown(dir string, s *series) (string, error) {
	path := filepath.Join(dir, s.Name+".md")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := bufio.NewWriterSize(file, 32*1024)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("# %s\n\n", s.Title))
	builder.WriteString(fmt.Sprintf("실행 시간: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	builder.WriteString(fmt.Sprintf("샘플 수: %d\n\n", s.Samples))

	builder.WriteString("## 비교 횟수 (첫 번째 열 대비 차이)\n\n")
	builder.WriteString("| 배열 크기 |")
	for _, c := range s.Columns {
		builder.WriteString(" " + c + " |")
	}
	builder.WriteString("\n|----------|")
	builder.WriteString(strings.Repeat("----------|", len(s.Columns)))
	builder.WriteString("\n")
	for _, p := range s.Points {
		builder.WriteString(fmt.Sprintf("| %s |", humanize.Comma(int64(p.Size))))
		for j := range s.Columns {
			builder.WriteString(fmt.Sprintf(" %s (%+.2f%%) |", humanize.Commaf(p.Comparisons[j]), p.Diffs[j]*100))
		}
		builder.WriteString("\n")
	}

	builder.WriteString("\n## 평균 실행시간\n\n")
	builder.WriteString("| 배열 크기 |")
	for _, c := range s.Columns {
		builder.WriteString(" " + c + " |")
	}
	builder.WriteString("\n|----------|")
	builder.WriteString(strings.Repeat("----------|", len(s.Columns)))
	builder.WriteString("\n")
	for _, p := range s.Points {
		builder.WriteString(fmt.Sprintf("| %s |", humanize.Comma(int64(p.Size))))
		for j := range s.Columns {
			builder.WriteString(fmt.Sprintf(" %v |", p.Durations[j]))
		}
		builder.WriteString("\n")
	}

	if _, err := writer.WriteString(builder.String()); err != nil {
		return "", err
	}
	return path, writer.Flush()
}

// saveResultsToJSON <name>.json
func saveResultsToJSON(dir, name string, v any) (string, error) {
	path := filepath.Join(dir, name+".json")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := bufio.NewWriterSize(file, 32*1024)
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return "", err
	}
	return path, writer.Flush()
}

// writeSeries 한 벤치마크 결과를 csv, md, json으로 저장
func writeSeries(dir string, s *series) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	csvPath, err := saveResultsToCSV(dir, s)
	if err != nil {
		return nil, errors.Wrap(err, "csv")
	}
	mdPath, err := saveResultsToMarkdown(dir, s)
	if err != nil {
		return nil, errors.Wrap(err, "markdown")
	}
	jsonPath, err := saveResultsToJSON(dir, s.Name, s)
	if err != nil {
		return nil, errors.Wrap(err, "json")
	}
	return []string{csvPath, mdPath, jsonPath}, nil
}

// TimingResult 시간 측정 벤치마크 한 번의 결과
type TimingResult struct {
	Algorithm    string        `json:"algorithm"`
	DataSize     int           `json:"data_size"`
	StorageType  string        `json:"storage_type"`
	TestRun      int           `json:"test_run"`
	Duration     time.Duration `json:"duration"`
	MemoryUsage  uint64        `json:"memory_usage_bytes"`
	Comparisons  int64         `json:"comparisons"`
	GoroutineNum int           `json:"goroutine_num"`
}

// SystemStats 시간, 메모리 측정용
type SystemStats struct {
	startTime time.Time
	startMem  runtime.MemStats
	endMem    runtime.MemStats
}

// writeDataToFile 한 줄에 숫자 하나
func writeDataToFile(data []int, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriterSize(file, 64*1024)
	for _, num := range data {
		writer.WriteString(strconv.Itoa(num))
		writer.WriteByte('\n')
	}
	return writer.Flush()
}

// readDataFromFile writeDataToFile 형식을 읽음
func readDataFromFile(filename string) ([]int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, err
	}
	// 대략적인 숫자 개수 추정 (평균 6자리 + 개행)
	data := make([]int, 0, int(fileInfo.Size()/7))

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), bufio.MaxScanTokenSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		num, err := strconv.Atoi(line)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", filename)
		}
		data = append(data, num)
	}
	return data, scanner.Err()
}

func startStats() *SystemStats {
	runtime.GC()
	runtime.GC()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &SystemStats{
		startTime: time.Now(),
		startMem:  m,
	}
}

// endStats 걸린 시간과 할당한 바이트
func (s *SystemStats) endStats() (time.Duration, uint64) {
	duration := time.Since(s.startTime)
	runtime.ReadMemStats(&s.endMem)
	return duration, s.endMem.TotalAlloc - s.startMem.TotalAlloc
}

// runTimed contender 하나를 data 복사본에 돌려서 시간, 메모리, 비교 횟수를 잼
func runTimed(c contender, data []int, storage string) (TimingResult, error) {
	testData := make([]int, len(data))
	copy(testData, data)

	var cnt runsort.Counter
	stats := startStats()
	sorted := c.sort(testData, &cnt)
	duration, memUsage := stats.endStats()

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] > sorted[i] {
			return TimingResult{}, errors.AssertionFailedf("%s left index %d out of order", c.name, i)
		}
	}
	return TimingResult{
		Algorithm:    c.name,
		DataSize:     len(data),
		StorageType:  storage,
		Duration:     duration,
		MemoryUsage:  memUsage,
		Comparisons:  cnt.Comparisons(),
		GoroutineNum: runtime.NumGoroutine(),
	}, nil
}

// saveTimingToMarkdown 크기, 저장 방식별 표와 평균 요약
func saveTimingToMarkdown(dir string, results []TimingResult, names map[string]string) (string, error) {
	path := filepath.Join(dir, "timing_results.md")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := bufio.NewWriterSize(file, 32*1024)

	var builder strings.Builder
	builder.WriteString("# 정렬 알고리즘 시간 측정 결과\n\n")
	builder.WriteString(fmt.Sprintf("실행 시간: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	builder.WriteString(fmt.Sprintf("CPU 코어 수: %d\n", runtime.NumCPU()))
	builder.WriteString(fmt.Sprintf("GOMAXPROCS: %d\n\n", runtime.GOMAXPROCS(0)))

	storageNames := map[string]string{
		"memory": "인메모리",
		"file":   "파일",
	}

	type group struct {
		size    int
		storage string
	}
	var groups []group
	seen := map[group]bool{}
	var algorithms []string
	seenAlgo := map[string]bool{}
	for _, r := range results {
		g := group{r.DataSize, r.StorageType}
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
		if !seenAlgo[r.Algorithm] {
			seenAlgo[r.Algorithm] = true
			algorithms = append(algorithms, r.Algorithm)
		}
	}

	for _, g := range groups {
		builder.WriteString(fmt.Sprintf("## %s - %s개 데이터\n\n", storageNames[g.storage], humanize.Comma(int64(g.size))))
		builder.WriteString("| 알고리즘 | 테스트 | 실행시간 | 메모리사용량 | 비교 횟수 |\n")
		builder.WriteString("|----------|--------|----------|--------------|-----------|\n")
		for _, r := range results {
			if r.DataSize == g.size && r.StorageType == g.storage {
				builder.WriteString(fmt.Sprintf("| %s | %d | %v | %s | %s |\n",
					names[r.Algorithm], r.TestRun, r.Duration, humanize.IBytes(r.MemoryUsage), humanize.Comma(r.Comparisons)))
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## 요약 통계\n\n")
	for _, g := range groups {
		builder.WriteString(fmt.Sprintf("### %s - %s개 데이터 평균\n\n", storageNames[g.storage], humanize.Comma(int64(g.size))))
		builder.WriteString("| 알고리즘 | 평균 실행시간 | 평균 메모리사용량 |\n")
		builder.WriteString("|----------|---------------|-------------------|\n")
		for _, algo := range algorithms {
			var totalDuration time.Duration
			var totalMemory uint64
			count := 0
			for _, r := range results {
				if r.Algorithm == algo && r.DataSize == g.size && r.StorageType == g.storage {
					totalDuration += r.Duration
					totalMemory += r.MemoryUsage
					count++
				}
			}
			if count > 0 {
				builder.WriteString(fmt.Sprintf("| %s | %v | %s |\n",
					names[algo], totalDuration/time.Duration(count), humanize.IBytes(totalMemory/uint64(count))))
			}
		}
		builder.WriteString("\n")
	}

	if _, err := writer.WriteString(builder.String()); err != nil {
		return "", err
	}
	return path, writer.Flush()
}
