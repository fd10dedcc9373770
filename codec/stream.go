package codec

import "io"

// chunkReader replays a recorded chunk sequence. Each Read returns at most
// one recorded chunk, preserving the boundaries the origin produced. The
// reader is finite and single-pass: after the last chunk it reports io.EOF
// and cannot be rewound.
type chunkReader struct {
	chunks [][]byte
	cur    []byte
	idx    int
	closed bool
}

func newChunkReader(chunks [][]byte) *chunkReader {
	return &chunkReader{chunks: chunks}
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, io.EOF
	}
	for len(r.cur) == 0 {
		if r.idx >= len(r.chunks) {
			return 0, io.EOF
		}
		r.cur = r.chunks[r.idx]
		r.idx++
	}
	n := copy(p, r.cur)
	r.cur = r.cur[n:]
	return n, nil
}

func (r *chunkReader) Close() error {
	r.closed = true
	r.cur = nil
	return nil
}
