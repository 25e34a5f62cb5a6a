package core

// prefetch.go implements §4.5's fire-and-forget prefetcher contracts as a small tagged-variant
// interface, per §9's "implement as tagged variants with a common capability set" design note.

// prefetcher is the common capability set every prefetch strategy implements. Prefetches never
// block a miss: onAccess is called after Cache.Access has already resolved hit/miss.
type prefetcher interface {
	onAccess(c *Cache, paddr uint64)
	onTaggedHit(c *Cache, paddr uint64)
}

func newPrefetcher(kind PrefetchStrategy, lineBytes int) prefetcher {
	switch kind {
	case PrefetchNextLine:
		return &nextLinePrefetcher{lineBytes: lineBytes}
	case PrefetchStride:
		return newStridePrefetcher(lineBytes)
	case PrefetchStream:
		return newStreamPrefetcher(lineBytes)
	case PrefetchTagged:
		return &taggedPrefetcher{lineBytes: lineBytes}
	default:
		return noPrefetcher{}
	}
}

type noPrefetcher struct{}

func (noPrefetcher) onAccess(*Cache, uint64)    {}
func (noPrefetcher) onTaggedHit(*Cache, uint64) {}

// nextLinePrefetcher issues a prefetch to the next line-aligned address on every access.
type nextLinePrefetcher struct {
	lineBytes int
}

func (p *nextLinePrefetcher) onAccess(c *Cache, paddr uint64) {
	aligned := paddr &^ uint64(p.lineBytes-1)
	c.Prefetch(aligned + uint64(p.lineBytes))
}

func (p *nextLinePrefetcher) onTaggedHit(*Cache, uint64) {}

// stridePrefetcher tracks a single (last_addr, last_stride, confidence) entry and prefetches
// last_addr+last_stride once confidence crosses a threshold, per §4.5.
type stridePrefetcher struct {
	lineBytes  int
	lastAddr   uint64
	lastStride int64
	confidence int
	have       bool
}

func newStridePrefetcher(lineBytes int) *stridePrefetcher {
	return &stridePrefetcher{lineBytes: lineBytes}
}

const strideConfidenceThreshold = 2

func (p *stridePrefetcher) onAccess(c *Cache, paddr uint64) {
	if p.have {
		stride := int64(paddr) - int64(p.lastAddr)

		if stride == p.lastStride && stride != 0 {
			if p.confidence < strideConfidenceThreshold {
				p.confidence++
			}
		} else {
			p.confidence = 0
			p.lastStride = stride
		}

		if p.confidence >= strideConfidenceThreshold {
			c.Prefetch(uint64(int64(paddr) + p.lastStride))
		}
	}

	p.lastAddr = paddr
	p.have = true
}

func (p *stridePrefetcher) onTaggedHit(*Cache, uint64) {}

// streamPrefetcher detects an ascending or descending sequential run and prefetches a fixed
// number of lines ahead.
type streamPrefetcher struct {
	lineBytes int
	degree    int

	lastLine int64
	dir      int64
	have     bool
}

func newStreamPrefetcher(lineBytes int) *streamPrefetcher {
	return &streamPrefetcher{lineBytes: lineBytes, degree: 2}
}

func (p *streamPrefetcher) onAccess(c *Cache, paddr uint64) {
	line := int64(paddr) / int64(p.lineBytes)

	if p.have {
		delta := line - p.lastLine
		if delta == 1 || delta == -1 {
			p.dir = delta

			for i := 1; i <= p.degree; i++ {
				c.Prefetch(uint64((line + p.dir*int64(i)) * int64(p.lineBytes)))
			}
		}
	}

	p.lastLine = line
	p.have = true
}

func (p *streamPrefetcher) onTaggedHit(*Cache, uint64) {}

// taggedPrefetcher marks prefetched lines; on a demand hit to a tagged line it prefetches the
// next line and untags (handled by Cache.Access, which clears the tag and calls onTaggedHit).
type taggedPrefetcher struct {
	lineBytes int
}

func (p *taggedPrefetcher) onAccess(*Cache, uint64) {}

func (p *taggedPrefetcher) onTaggedHit(c *Cache, paddr uint64) {
	aligned := paddr &^ uint64(p.lineBytes-1)
	c.Prefetch(aligned + uint64(p.lineBytes))
}
