package warehouse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitvecSetGet(t *testing.T) {
	var bv bitvec
	bv.setBit(3, true)
	bv.setBit(70, true)

	for _, i := range []int{3, 70} {
		v, ok := bv.getBit(i)
		require.True(t, ok)
		require.True(t, v, "getBit(%d)", i)
	}
	v, ok := bv.getBit(4)
	require.True(t, ok)
	require.False(t, v)
	_, ok = bv.getBit(1000)
	require.False(t, ok, "getBit(1000) should be out of range")

	bv.setBit(3, false)
	v, _ = bv.getBit(3)
	require.False(t, v, "getBit(3) after clear")
}

func TestBitsetIteratorSingleStreamIntersection(t *testing.T) {
	var bv bitvec
	for _, i := range []int{0, 2, 64, 65, 130} {
		bv.setBit(i, true)
	}

	it := newBitsetIterator([]bitStream{{stream: streamFromBitvec(&bv), mapFn: identityMap}}, bv.len)
	var got []int
	for {
		idx, ok := it.next()
		if !ok {
			break
		}
		got = append(got, idx)
	}
	require.Equal(t, []int{0, 2, 64, 65, 130}, got)
}

func TestBitsetIteratorTwoStreamIntersection(t *testing.T) {
	var a, b bitvec
	for _, i := range []int{0, 1, 2, 64, 65} {
		a.setBit(i, true)
	}
	for _, i := range []int{1, 2, 3, 65, 66} {
		b.setBit(i, true)
	}

	streams := []bitStream{
		{stream: streamFromBitvec(&a), mapFn: identityMap},
		{stream: streamFromBitvec(&b), mapFn: identityMap},
	}
	it := newBitsetIterator(streams, max(a.len, b.len))
	var got []int
	for {
		idx, ok := it.next()
		if !ok {
			break
		}
		got = append(got, idx)
	}
	require.Equal(t, []int{1, 2, 65}, got)
}

func TestBitsetIteratorDoneIsSticky(t *testing.T) {
	var bv bitvec
	bv.setBit(0, true)
	it := newBitsetIterator([]bitStream{{stream: streamFromBitvec(&bv), mapFn: identityMap}}, bv.len)

	_, ok := it.next()
	require.True(t, ok, "expected one bit")
	_, ok = it.next()
	require.False(t, ok, "expected exhaustion")
	_, ok = it.next()
	require.False(t, ok, "expected iterator to stay done on repeated calls")
}
