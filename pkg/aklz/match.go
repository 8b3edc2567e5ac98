package aklz

const (
	hashBits = 14
	hashSize = 1 << hashBits
	maxChain = 256
)

// matcher finds back-references with hash chains over the input preceded by
// the zero bytes the decoder's ring buffer starts with.
type matcher struct {
	window []byte
	head   [hashSize]int32
	prev   []int32
}

func newMatcher(data []byte) *matcher {
	window := make([]byte, ringStart+len(data))
	copy(window[ringStart:], data)

	m := &matcher{
		window: window,
		prev:   make([]int32, len(window)),
	}
	for i := range m.head {
		m.head[i] = -1
	}
	for p := 0; p < ringStart; p++ {
		m.insert(p)
	}
	return m
}

func (m *matcher) hash(p int) uint32 {
	v := uint32(m.window[p])<<16 | uint32(m.window[p+1])<<8 | uint32(m.window[p+2])
	return (v * 2654435761) >> (32 - hashBits)
}

func (m *matcher) insert(p int) {
	if p+minMatch > len(m.window) {
		return
	}
	h := m.hash(p)
	m.prev[p] = m.head[h]
	m.head[h] = int32(p)
}

// insertRange registers count input positions starting at pos.
func (m *matcher) insertRange(pos, count int) {
	for i := 0; i < count; i++ {
		m.insert(ringStart + pos + i)
	}
}

// find returns the distance and length of the longest match for input
// position pos, or a length of zero when none reaches minMatch.
func (m *matcher) find(pos int) (distance, length int) {
	p := ringStart + pos
	if p+minMatch > len(m.window) {
		return 0, 0
	}

	limit := len(m.window) - p
	if limit > maxMatch {
		limit = maxMatch
	}

	candidate := m.head[m.hash(p)]
	for chain := 0; candidate >= 0 && chain < maxChain; chain++ {
		c := int(candidate)
		d := p - c
		if d > maxDistance {
			break
		}

		n := 0
		for n < limit && m.window[c+n] == m.window[p+n] {
			n++
		}
		if n > length {
			distance, length = d, n
			if n == limit {
				break
			}
		}
		candidate = m.prev[c]
	}

	if length < minMatch {
		return 0, 0
	}
	return distance, length
}
