package trace

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joshuapare/heapkit/internal/mmfile"
)

// maxPrealloc caps the op slice reserved up front from the untrusted header.
const maxPrealloc = 1 << 16

// Load maps and parses the trace file at path. The trace is named after
// the file.
func Load(path string) (*Trace, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}
	defer cleanup() //nolint:errcheck // read-only mapping

	tr, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tr.Name = filepath.Base(path)
	return tr, nil
}

// Parse reads a trace. Blank lines and lines starting with '#' are ignored.
// Every operation is checked against the id lifecycle: an id is allocated
// before it is resized or freed, and is not allocated twice while live.
func Parse(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		for sc.Scan() {
			line++
			s := strings.TrimSpace(sc.Text())
			if s == "" || s[0] == '#' {
				continue
			}
			return s, true
		}
		return "", false
	}

	var header [4]int
	names := [4]string{"suggested heap size", "id count", "op count", "weight"}
	for i := range header {
		s, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrSyntax, names[i])
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: line %d: bad %s %q", ErrSyntax, line, names[i], s)
		}
		header[i] = v
	}
	if header[1] > MaxIDs {
		return nil, fmt.Errorf("%w: id count %d exceeds %d", ErrSyntax, header[1], MaxIDs)
	}

	tr := &Trace{
		SuggestedHeapSize: header[0],
		NumIDs:            header[1],
		Weight:            header[3],
		Ops:               make([]Op, 0, min(header[2], maxPrealloc)),
	}
	live := make([]bool, tr.NumIDs)

	for {
		s, ok := next()
		if !ok {
			break
		}
		op, err := parseOp(s)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrSyntax, line, err)
		}
		if op.ID >= tr.NumIDs {
			return nil, fmt.Errorf("%w: line %d: id %d >= %d", ErrBadID, line, op.ID, tr.NumIDs)
		}
		switch {
		case op.Kind == OpAlloc && live[op.ID]:
			return nil, fmt.Errorf("%w: line %d: id %d allocated twice", ErrBadID, line, op.ID)
		case op.Kind != OpAlloc && !live[op.ID]:
			return nil, fmt.Errorf("%w: line %d: %s of id %d that is not live", ErrBadID, line, op.Kind, op.ID)
		}
		live[op.ID] = op.Kind != OpFree
		tr.Ops = append(tr.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(tr.Ops) != header[2] {
		return nil, fmt.Errorf("%w: header declares %d ops, found %d", ErrSyntax, header[2], len(tr.Ops))
	}
	return tr, nil
}

func parseOp(s string) (Op, error) {
	f := strings.Fields(s)
	if len(f[0]) != 1 {
		return Op{}, fmt.Errorf("unknown op %q", f[0])
	}
	op := Op{Kind: OpKind(f[0][0])}

	want := 3
	switch op.Kind {
	case OpAlloc, OpRealloc:
	case OpFree:
		want = 2
	default:
		return Op{}, fmt.Errorf("unknown op %q", f[0])
	}
	if len(f) != want {
		return Op{}, fmt.Errorf("%s takes %d fields, got %d", op.Kind, want-1, len(f)-1)
	}

	var err error
	if op.ID, err = strconv.Atoi(f[1]); err != nil || op.ID < 0 {
		return Op{}, fmt.Errorf("bad id %q", f[1])
	}
	if want == 3 {
		if op.Size, err = strconv.Atoi(f[2]); err != nil || op.Size < 0 {
			return Op{}, fmt.Errorf("bad size %q", f[2])
		}
	}
	return op, nil
}

// Write encodes tr in trace file format.
func Write(w io.Writer, tr *Trace) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n%d\n%d\n", tr.SuggestedHeapSize, tr.NumIDs, len(tr.Ops), tr.Weight)
	for _, op := range tr.Ops {
		bw.WriteString(op.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
