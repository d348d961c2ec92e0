package resultstore

import (
	"math"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// bloomFilter 저장소 키 존재 여부를 빠르게 거르는 블룸 필터.
// 없다고 하면 확실히 없고, 있다고 하면 백엔드에서 다시 확인해야 함.
type bloomFilter struct {
	bitArray []uint64
	size     uint64
	numHash  uint
	numItems uint64
}

func newBloomFilter(expectedItems uint64, falsePositiveRate float64) *bloomFilter {
	expectedItems = max(expectedItems, 1)
	size := max(uint64(-float64(expectedItems)*math.Log(falsePositiveRate)/(math.Log(2)*math.Log(2))), 64)
	numHash := min(max(uint(float64(size)/float64(expectedItems)*math.Log(2)), 1), 15)

	return &bloomFilter{
		bitArray: make([]uint64, (size+63)/64),
		size:     size,
		numHash:  numHash,
	}
}

// hash 이중 해싱으로 i번째 위치 계산
func (bf *bloomFilter) hash(h1 uint64, i uint) uint64 {
	h2 := h1>>17 ^ h1<<47 ^ uint64(i)*0x9e3779b97f4a7c15
	if h2%2 == 0 {
		h2++
	}
	return (h1 + uint64(i)*h2) % bf.size
}

func (bf *bloomFilter) Add(data []byte) {
	h1 := xxhash.Sum64(data)
	for i := uint(0); i < bf.numHash; i++ {
		pos := bf.hash(h1, i)
		bf.bitArray[pos/64] |= 1 << (pos % 64)
	}
	bf.numItems++
}

func (bf *bloomFilter) Contains(data []byte) bool {
	h1 := xxhash.Sum64(data)
	for i := uint(0); i < bf.numHash; i++ {
		pos := bf.hash(h1, i)
		if bf.bitArray[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

// Stats 켜진 비트 수, 채움 비율, 추정 오탐률
func (bf *bloomFilter) Stats() (uint64, float64, float64) {
	setBits := uint64(0)
	for _, word := range bf.bitArray {
		setBits += uint64(bits.OnesCount64(word))
	}
	fillRatio := float64(setBits) / float64(bf.size)
	return setBits, fillRatio, math.Pow(fillRatio, float64(bf.numHash))
}
