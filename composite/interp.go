package composite

import (
	"fmt"

	"github.com/jlab-go/evio/errs"
)

// walker is the shared traversal driving Decode, Encode, and Swap: all
// three differ only in how they handle a count source and a run of
// leaf elements, so the loop/stack bookkeeping lives here once.
type walker interface {
	// readCount is called for opCountN/opCountn/opCountm; it returns the
	// repeat count the following LPAR or leaf should use.
	readCount(kind opKind) (int, error)
	// leaf is called for a run of n consecutive elements of type lt.
	leaf(lt LeafType, n int) error
}

func run(ops []Op, w walker) error {
	var stack []loopFrame
	pending := -1 // -1 means "no runtime count pending"

	takeCount := func(literal int) (int, error) {
		if pending >= 0 {
			n := pending
			pending = -1
			return n, nil
		}
		return literal, nil
	}

	ip := 0
	for ip < len(ops) {
		op := ops[ip]
		switch op.kind() {
		case opCountN, opCountn, opCountm:
			n, err := w.readCount(op.kind())
			if err != nil {
				return err
			}
			pending = n
			ip++

		case opLPar:
			count, err := takeCount(op.count())
			if err != nil {
				return err
			}
			bodyStart := ip + 1
			if count <= 0 {
				end, err := matchingRPar(ops, ip)
				if err != nil {
					return err
				}
				ip = end + 1
				continue
			}
			if len(stack) >= maxStackDepth {
				return fmt.Errorf("%w: loop stack exceeds depth %d", errs.ErrFormat, maxStackDepth)
			}
			stack = append(stack, loopFrame{startIP: bodyStart, remaining: count})
			ip = bodyStart

		case opRPar:
			if len(stack) == 0 {
				return fmt.Errorf("%w: unmatched ) in compiled program", errs.ErrFormat)
			}
			top := &stack[len(stack)-1]
			top.remaining--
			if top.remaining > 0 {
				ip = top.startIP
			} else {
				stack = stack[:len(stack)-1]
				ip++
			}

		case opLeaf:
			count, err := takeCount(op.count())
			if err != nil {
				return err
			}
			if count <= 0 {
				count = 1
			}
			if err := w.leaf(op.leaf(), count); err != nil {
				return err
			}
			ip++

		default:
			return fmt.Errorf("%w: unknown opcode %d", errs.ErrFormat, op.kind())
		}
	}

	if len(stack) != 0 {
		return fmt.Errorf("%w: unclosed loop at end of program", errs.ErrFormat)
	}

	return nil
}

// matchingRPar returns the index of the RPAR matching the LPAR at ops[open].
func matchingRPar(ops []Op, open int) (int, error) {
	depth := 0
	for i := open; i < len(ops); i++ {
		switch ops[i].kind() {
		case opLPar:
			depth++
		case opRPar:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unmatched ( in compiled program", errs.ErrFormat)
}
