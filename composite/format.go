package composite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jlab-go/evio/errs"
)

var leafLetters = map[byte]LeafType{
	'I': LeafInt32,
	'i': LeafUint32,
	'L': LeafInt64,
	'l': LeafUint64,
	'S': LeafShort16,
	's': LeafUshort16,
	'B': LeafByte,
	'b': LeafUbyte,
	'F': LeafFloat32,
	'D': LeafDouble64,
	'C': LeafChar,
	'A': LeafAscii,
}

// Compile turns a format string such as "2(I,D)" or "NI,F" into a
// sequence of Ops the interpreter in interp.go can walk for encode,
// decode, or swap.
//
// Grammar (spec.md §4.3): a comma-separated list of terms, each either
// a leaf letter (optionally preceded by a literal repeat count or one
// of the runtime count sources N/n/m), or a parenthesized group
// (optionally preceded by the same count forms) that nests recursively.
func Compile(format string) ([]Op, error) {
	c := &compiler{src: format}
	ops, err := c.parseTerms(0)
	if err != nil {
		return nil, err
	}
	if c.pos != len(c.src) {
		return nil, fmt.Errorf("%w: unexpected trailing input at %d in %q", errs.ErrFormat, c.pos, format)
	}
	return ops, nil
}

type compiler struct {
	src   string
	pos   int
	depth int
}

func (c *compiler) parseTerms(depth int) ([]Op, error) {
	var ops []Op
	for c.pos < len(c.src) {
		if c.src[c.pos] == ')' {
			break
		}
		termOps, err := c.parseTerm(depth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, termOps...)
		if c.pos < len(c.src) && c.src[c.pos] == ',' {
			c.pos++
			continue
		}
		break
	}
	return ops, nil
}

func (c *compiler) parseTerm(depth int) ([]Op, error) {
	count, countKind, err := c.parseCount()
	if err != nil {
		return nil, err
	}

	if c.pos >= len(c.src) {
		return nil, fmt.Errorf("%w: format ends mid-term", errs.ErrFormat)
	}

	var prefix []Op
	if countKind != opLeaf {
		prefix = append(prefix, makeOp(countKind, 0, 0))
	}

	if c.src[c.pos] == '(' {
		if depth+1 > maxStackDepth {
			return nil, fmt.Errorf("%w: nesting exceeds depth %d", errs.ErrFormat, maxStackDepth)
		}
		c.pos++
		inner, err := c.parseTerms(depth + 1)
		if err != nil {
			return nil, err
		}
		if c.pos >= len(c.src) || c.src[c.pos] != ')' {
			return nil, fmt.Errorf("%w: missing closing paren", errs.ErrFormat)
		}
		c.pos++

		lparCount := count
		if countKind != opLeaf {
			lparCount = 0
		} else if lparCount == 0 {
			lparCount = 1
		}
		ops := append(prefix, makeOp(opLPar, 0, lparCount))
		ops = append(ops, inner...)
		ops = append(ops, makeOp(opRPar, 0, 0))
		return ops, nil
	}

	leaf, ok := leafLetters[c.src[c.pos]]
	if !ok {
		return nil, fmt.Errorf("%w: unknown format letter %q at %d", errs.ErrFormat, c.src[c.pos], c.pos)
	}
	c.pos++

	leafCount := count
	if countKind != opLeaf {
		leafCount = 0
	} else if leafCount == 0 {
		leafCount = 1
	}
	return append(prefix, makeOp(opLeaf, leaf, leafCount)), nil
}

// parseCount reads an optional leading repeat count: a decimal literal,
// or one of the runtime-sourced markers N, n, m. Returns countKind ==
// opLeaf when no count prefix was present (caller defaults to 1).
func (c *compiler) parseCount() (count int, kind opKind, err error) {
	start := c.pos
	for c.pos < len(c.src) && c.src[c.pos] >= '0' && c.src[c.pos] <= '9' {
		c.pos++
	}
	if c.pos > start {
		n, convErr := strconv.Atoi(c.src[start:c.pos])
		if convErr != nil {
			return 0, opLeaf, fmt.Errorf("%w: bad repeat count %q", errs.ErrFormat, c.src[start:c.pos])
		}
		return n, opLeaf, nil
	}

	if c.pos < len(c.src) {
		switch c.src[c.pos] {
		case 'N':
			c.pos++
			return 0, opCountN, nil
		case 'n':
			c.pos++
			return 0, opCountn, nil
		case 'm':
			c.pos++
			return 0, opCountm, nil
		}
	}

	return 0, opLeaf, nil
}

// String reconstructs a human-readable rendering of a compiled
// program, mainly useful for diagnostics.
func String(ops []Op) string {
	var b strings.Builder
	for i, op := range ops {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch op.kind() {
		case opLeaf:
			fmt.Fprintf(&b, "%d%s", op.count(), op.leaf())
		case opLPar:
			fmt.Fprintf(&b, "%d(", op.count())
		case opRPar:
			b.WriteByte(')')
		case opCountN:
			b.WriteByte('N')
		case opCountn:
			b.WriteByte('n')
		case opCountm:
			b.WriteByte('m')
		}
	}
	return b.String()
}
