package warehouse

import "math/bits"

const wordBits = 64

// bitvec is a dense growable bit array. One exists per component ID,
// recording which archetype indices carry that component (spec.md §3
// "Archetype-membership bitset"). Ported from
// original_source/arche_tape/src/archetype_iter.rs's Bitvec.
type bitvec struct {
	data []uint64
	len  int
}

// getBit reports the bit at index i and whether i is within len.
func (b *bitvec) getBit(i int) (value bool, ok bool) {
	if i < 0 || i >= b.len {
		return false, false
	}
	w, off := i/wordBits, i%wordBits
	return (b.data[w]>>uint(off))&1 == 1, true
}

// setBit sets or clears the bit at index i, growing the backing storage
// and len as needed.
func (b *bitvec) setBit(i int, value bool) {
	w, off := i/wordBits, i%wordBits
	if i >= b.len {
		b.len = i + 1
		if len(b.data) < w+1 {
			grown := make([]uint64, w+1)
			copy(grown, b.data)
			b.data = grown
		}
	}
	mask := uint64(1) << uint(off)
	if value {
		b.data[w] |= mask
	} else {
		b.data[w] &^= mask
	}
}

// wordMapFn maps one machine word of a stream before it is ANDed into the
// running intersection: identity for a required component, complement for
// an excluded or never-registered one (spec.md §4.2).
type wordMapFn func(uint64) uint64

func identityMap(w uint64) uint64 { return w }

func complementMap(w uint64) uint64 { return ^w }

// wordStream is a lazy sequence of machine words pulled from one bitvec's
// backing storage.
type wordStream struct {
	words []uint64
	pos   int
}

func streamFromBitvec(b *bitvec) *wordStream {
	return &wordStream{words: b.data}
}

func (s *wordStream) next() (uint64, bool) {
	if s.pos >= len(s.words) {
		return 0, false
	}
	w := s.words[s.pos]
	s.pos++
	return w, true
}

// bitStream pairs one word stream with the mapping function applied to
// every word it yields before intersection.
type bitStream struct {
	stream *wordStream
	mapFn  wordMapFn
}

// bitsetIterator is the C3 streaming bitset-intersection iterator: a direct
// Go port of archetype_iter.rs's BitsetIterator, generalised from a Rust
// const-N array of streams to a Go slice (spec.md §9 "dynamic N").
//
// It keeps at most one currently-being-consumed intersected word and a
// cursor of bits remaining in it; on exhaustion it pulls the next word from
// every stream, ending iteration the moment any stream runs dry or the
// absolute bit index exceeds bitLength.
type bitsetIterator struct {
	streams []bitStream

	bitLength int
	index     int

	bitsRemaining uint
	currentBits   uint64
	done          bool
}

func newBitsetIterator(streams []bitStream, bitLength int) *bitsetIterator {
	return &bitsetIterator{streams: streams, bitLength: bitLength}
}

// next returns the next set bit index in ascending order, or false once the
// streams are exhausted or the cap is reached. Once it returns false it
// continues to return false on every subsequent call.
func (it *bitsetIterator) next() (int, bool) {
	if it.done {
		return 0, false
	}
	for {
		if it.bitsRemaining == 0 {
			w0, ok := it.streams[0].stream.next()
			if !ok {
				it.done = true
				return 0, false
			}
			filtered := it.streams[0].mapFn(w0)
			for k := 1; k < len(it.streams); k++ {
				wk, ok := it.streams[k].stream.next()
				if !ok {
					it.done = true
					return 0, false
				}
				filtered &= it.streams[k].mapFn(wk)
			}
			it.bitsRemaining = wordBits
			it.currentBits = filtered
		}

		zeros := bits.TrailingZeros64(it.currentBits)

		if zeros == wordBits {
			it.index += int(it.bitsRemaining)
			it.bitsRemaining = 0
			continue
		}

		it.bitsRemaining -= uint(zeros) + 1
		it.currentBits >>= uint(zeros) + 1
		it.index += zeros + 1

		if it.index > it.bitLength {
			it.currentBits = 0
			it.done = true
			return 0, false
		}

		return it.index - 1, true
	}
}
