package sdn

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/tailored-agentic-units/listmonitor/snapshot"
)

// Decode streams the entries of an SDN.xml document one <sdnEntry> at a
// time. Entries are read from the first <sdnList> element, wherever it sits
// in the document; every other element outside an entry is skipped. An entry
// must be in Namespace or in no namespace. Any failure is yielded once,
// wrapped in ErrMalformed, and ends the sequence.
func Decode(r io.Reader) iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		dec := xml.NewDecoder(r)

		if err := readRoot(dec); err != nil {
			yield(nil, err)
			return
		}

		for {
			tok, err := dec.Token()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, malformed(err))
				return
			}

			start, ok := tok.(xml.StartElement)
			if !ok || start.Name.Local != entryElement {
				continue
			}

			if !inNamespace(start.Name) {
				yield(nil, malformed(fmt.Errorf("<%s> in unexpected namespace %q", entryElement, start.Name.Space)))
				return
			}

			var e Entry
			if err := dec.DecodeElement(&e, &start); err != nil {
				yield(nil, malformed(err))
				return
			}
			if !yield(&e, nil) {
				return
			}
		}
	}
}

// Load decodes a whole document into a snapshot. Entries are sorted by UID
// whatever their document order.
func Load(ctx context.Context, r io.Reader) (*snapshot.Snapshot[int, *Entry], error) {
	return snapshot.Collect[int, *Entry](ctx, Decode(r))
}

// LoadFile opens path and decodes it with Load.
func LoadFile(ctx context.Context, path string) (*snapshot.Snapshot[int, *Entry], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer f.Close()

	return Load(ctx, f)
}

// readRoot advances dec past the <sdnList> start tag, descending through any
// enclosing elements.
func readRoot(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return malformed(fmt.Errorf("missing <%s> element", rootElement))
		}
		if err != nil {
			return malformed(err)
		}

		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == rootElement {
			return nil
		}
	}
}

func inNamespace(name xml.Name) bool {
	return name.Space == "" || name.Space == Namespace
}

func malformed(cause error) error {
	return fmt.Errorf("%w: %w", ErrMalformed, cause)
}
