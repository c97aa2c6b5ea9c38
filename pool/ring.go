package pool

import "github.com/pthm-cable/particlecore/host"

// ring is a FIFO queue whose backing array grows on demand up to the pool
// capacity. Order of insertion is preserved across growth and pruning.
type ring struct {
	buf  []host.Particle
	head int
	n    int
}

func (r *ring) len() int {
	return r.n
}

func (r *ring) at(i int) host.Particle {
	return r.buf[(r.head+i)%len(r.buf)]
}

func (r *ring) push(p host.Particle, limit int) {
	if r.n == len(r.buf) {
		r.grow(limit)
	}
	r.buf[(r.head+r.n)%len(r.buf)] = p
	r.n++
}

func (r *ring) pop() host.Particle {
	if r.n == 0 {
		return nil
	}
	p := r.buf[r.head]
	r.buf[r.head] = nil
	r.head = (r.head + 1) % len(r.buf)
	r.n--
	return p
}

func (r *ring) grow(limit int) {
	size := len(r.buf) * 2
	if size == 0 {
		size = 16
	}
	if size > limit {
		size = limit
	}
	if size <= r.n {
		size = r.n + 1
	}
	buf := make([]host.Particle, size)
	for i := 0; i < r.n; i++ {
		buf[i] = r.at(i)
	}
	r.buf = buf
	r.head = 0
}

// filter keeps the particles for which keep returns true, preserving order.
// Returns the number removed.
func (r *ring) filter(keep func(host.Particle) bool) int {
	kept := 0
	for i := 0; i < r.n; i++ {
		p := r.at(i)
		if keep(p) {
			r.buf[(r.head+kept)%len(r.buf)] = p
			kept++
		}
	}
	for i := kept; i < r.n; i++ {
		r.buf[(r.head+i)%len(r.buf)] = nil
	}
	removed := r.n - kept
	r.n = kept
	return removed
}

func (r *ring) each(fn func(host.Particle)) {
	for i := 0; i < r.n; i++ {
		fn(r.at(i))
	}
}

func (r *ring) reset() {
	clear(r.buf)
	r.head = 0
	r.n = 0
}
