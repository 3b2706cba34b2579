// Command evioinfo inspects an EVIO file or buffer: byte order,
// format version, record/event counts, and per-event tag/type/num
// summaries. It exercises only the reader facades in evfile and
// compact — it must not grow any protocol-decoding logic of its own.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jlab-go/evio/evfile"
)

func main() {
	dumpEvents := flag.Bool("events", false, "list every top-level event's tag/num/type")
	eventIndex := flag.Int("event", -1, "print the structure tree of one event, by index")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: evioinfo [-events] [-event N] <file>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *dumpEvents, *eventIndex); err != nil {
		log.Fatal(err)
	}
}

func run(path string, dumpEvents bool, eventIndex int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := evfile.Open(data)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	fmt.Printf("file:          %s\n", path)
	fmt.Printf("bytes:         %d\n", len(data))
	fmt.Printf("format version: %d\n", f.Version())
	if f.IsModern() {
		fmt.Printf("record count:  %d\n", f.FileHeader().RecordCount)
		fmt.Printf("trailer:       %v\n", f.FileHeader().HasTrailer())
	}
	fmt.Printf("event count:   %d\n", f.EventCount())

	if dumpEvents || eventIndex >= 0 {
		cr, err := evfile.NewCompactReader(f)
		if err != nil {
			return fmt.Errorf("scanning events: %w", err)
		}

		if dumpEvents {
			for i, root := range cr.Index().Events() {
				n, err := cr.Index().Node(root)
				if err != nil {
					return err
				}
				fmt.Printf("event %4d: tag=0x%04x num=%d type=%s\n", i, n.Tag, n.Num, n.DataType)
			}
		}

		if eventIndex >= 0 {
			if err := printTree(cr, eventIndex); err != nil {
				return err
			}
		}
	}

	return nil
}
