package chunk

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jonchammer/iff/path"
	"github.com/jonchammer/iff/quality"
)

// CompareProvider resolves leaf-level (KindApp) comparison. registry.Registry
// satisfies this interface; it is declared here, rather than chunk
// depending on the registry package, so that the chunk <-> registry
// dependency only runs in one direction (registry imports chunk).
type CompareProvider interface {
	CompareLeaf(a, b *Chunk) bool
}

// ClearProvider resolves leaf-level (KindApp) resource release.
type ClearProvider interface {
	ClearLeaf(c *Chunk)
}

// CheckProvider resolves leaf-level (KindApp) structural validation.
type CheckProvider interface {
	CheckLeaf(c *Chunk, p path.Path, sink quality.Sink) quality.Level
}

// PrintProvider resolves leaf-level (KindApp) pretty-printing.
type PrintProvider interface {
	PrintLeaf(w io.Writer, c *Chunk, indent int) error
}

// Compare reports deep structural equality between a and b: same ID,
// same size, same Kind; for groups, equal
// ContentsType and pairwise-equal children in order; for raw chunks,
// byte-equal bodies; for app chunks, reg.CompareLeaf.
func Compare(a, b *Chunk, reg CompareProvider) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ChunkID != b.ChunkID || a.ChunkSize != b.ChunkSize || a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindGroup:
		if a.ContentsType != b.ContentsType || len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !Compare(a.Children[i], b.Children[i], reg) {
				return false
			}
		}
		return true
	case KindRaw:
		return bytes.Equal(a.Raw, b.Raw)
	case KindApp:
		return reg.CompareLeaf(a, b)
	default:
		return false
	}
}

// Free releases c and every descendant, invoking reg.ClearLeaf on each
// KindApp node before discarding it: an app chunk first has its clear
// hook invoked, then groups recursively free all children, then the
// chunk header itself is released. Go's garbage collector reclaims
// memory on its own, but
// ClearLeaf is still given the chance to release any non-memory resource
// an application payload might own.
func Free(c *Chunk, reg ClearProvider) {
	if c == nil {
		return
	}
	switch c.Kind {
	case KindGroup:
		for _, child := range c.Children {
			Free(child, reg)
		}
		c.Children = nil
	case KindApp:
		reg.ClearLeaf(c)
		c.App = nil
	case KindRaw:
		c.Raw = nil
	}
	c.Parent = nil
}

// Check recursively validates c against the structural invariants of a
// well-formed chunk tree, combining child levels with quality.Min and
// reporting every finding (fatal or not) to sink. It never returns an
// error; the overall Level is returned directly, not reported to sink.
func Check(c *Chunk, reg CheckProvider, sink quality.Sink, p path.Path) quality.Level {
	if c == nil {
		return quality.Perfect
	}

	frame := path.Frame(c.ContentsType, c.ChunkID)
	here := p.Push(frame)

	switch c.Kind {
	case KindGroup:
		return checkGroup(c, reg, sink, here)
	case KindRaw:
		return quality.Perfect
	case KindApp:
		return reg.CheckLeaf(c, here, sink)
	default:
		report(sink, here, quality.Invalid, "unknown chunk kind")
		return quality.Invalid
	}
}

func checkGroup(g *Chunk, reg CheckProvider, sink quality.Sink, here path.Path) quality.Level {
	level := quality.Perfect

	if g.ChunkID == FORM || g.ChunkID == PROP {
		if !IsLegalFormType(g.ContentsType) {
			report(sink, here, quality.Invalid, fmt.Sprintf("illegal form type %q", g.ContentsType.String()))
			level = quality.Min(level, quality.Invalid)
		}
	} else if g.ContentsType != Wildcard && !IsLegalFormType(g.ContentsType) {
		report(sink, here, quality.Invalid, fmt.Sprintf("illegal contents type %q", g.ContentsType.String()))
		level = quality.Min(level, quality.Invalid)
	}

	if g.ChunkID == LIST && !PropsBeforeForms(g.Children) {
		report(sink, here, quality.OK, "PROP chunk follows a FORM chunk in this LIST")
		level = quality.Min(level, quality.OK)
	}

	for i, child := range g.Children {
		if IsGroupID(g.ChunkID) && !ChildAllowed(g.ChunkID, child.ChunkID) {
			childPath := here.Push(path.Index(i))
			report(sink, childPath, quality.Invalid, fmt.Sprintf("chunk %q is not allowed inside %q", child.ChunkID.String(), g.ChunkID.String()))
			level = quality.Min(level, quality.Invalid)
		}
		level = quality.Min(level, Check(child, reg, sink, here))
	}

	return level
}

func report(sink quality.Sink, p path.Path, level quality.Level, msg string) {
	if sink == nil {
		return
	}
	sink.Report(quality.Finding{Path: p, Level: level, Message: msg})
}

// Print writes a human-readable, indented dump of c to w. Groups print
// "FORM <type>" (or LIST/CAT/PROP) followed by their
// children; raw TEXT chunks print as text, other raw chunks as a hex dump
// wrapped every 10 bytes; app chunks delegate to reg.PrintLeaf. Print
// offers no round-trip guarantee -- it is purely diagnostic.
func Print(w io.Writer, c *Chunk, indent int, reg PrintProvider) error {
	pad := func() { fmt.Fprint(w, indentString(indent)) }

	switch c.Kind {
	case KindGroup:
		pad()
		fmt.Fprintf(w, "%s %s\n", c.ChunkID.String(), c.ContentsType.String())
		for _, child := range c.Children {
			if err := Print(w, child, indent+1, reg); err != nil {
				return err
			}
		}
		return nil

	case KindRaw:
		pad()
		fmt.Fprintf(w, "%s (%d bytes)\n", c.ChunkID.String(), len(c.Raw))
		if c.ChunkID == (ID{'T', 'E', 'X', 'T'}) {
			pad()
			fmt.Fprintf(w, "  %q\n", string(c.Raw))
			return nil
		}
		return printHexDump(w, c.Raw, indent+1)

	case KindApp:
		return reg.PrintLeaf(w, c, indent)

	default:
		return fmt.Errorf("chunk: Print: unknown kind %v", c.Kind)
	}
}

func printHexDump(w io.Writer, data []byte, indent int) error {
	for i := 0; i < len(data); i += 10 {
		end := i + 10
		if end > len(data) {
			end = len(data)
		}
		if _, err := fmt.Fprint(w, indentString(indent)); err != nil {
			return err
		}
		for _, b := range data[i:end] {
			if _, err := fmt.Fprintf(w, "%02X ", b); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func indentString(indent int) string {
	out := make([]byte, indent*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}
