package iff_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonchammer/iff/chunk"
	"github.com/jonchammer/iff/ifferr"
	"github.com/jonchammer/iff/iff"
	"github.com/jonchammer/iff/quality"
	"github.com/jonchammer/iff/registry"
)

var (
	ilbm = chunk.ID{'I', 'L', 'B', 'M'}
	test = chunk.ID{'T', 'E', 'S', 'T'}
	body = chunk.ID{'B', 'O', 'D', 'Y'}
)

// (a) Minimum valid FORM: "FORM" size=4 "TEST", no children.
func TestScenarioA_MinimumValidForm(t *testing.T) {
	in := []byte{
		'F', 'O', 'R', 'M', 0x00, 0x00, 0x00, 0x04,
		'T', 'E', 'S', 'T',
	}

	reg := registry.New()
	c, err := iff.Parse(bytes.NewReader(in), reg)
	require.NoError(t, err)
	require.Equal(t, chunk.FORM, c.ChunkID)
	require.Equal(t, chunk.KindGroup, c.Kind)
	require.Equal(t, test, c.ContentsType)
	require.Empty(t, c.Children)

	var out bytes.Buffer
	require.NoError(t, iff.Write(&out, c, reg))
	require.Equal(t, in, out.Bytes())
}

// (b) Odd-size raw leaf inside FORM: BODY=[01 02 03], padded.
func TestScenarioB_OddSizeRawLeafInsideForm(t *testing.T) {
	in := []byte{
		'F', 'O', 'R', 'M', 0x00, 0x00, 0x00, 0x10,
		'T', 'E', 'S', 'T',
		'B', 'O', 'D', 'Y', 0x00, 0x00, 0x00, 0x03,
		0x01, 0x02, 0x03, 0x00,
	}

	reg := registry.New()
	c, err := iff.Parse(bytes.NewReader(in), reg)
	require.NoError(t, err)
	require.Len(t, c.Children, 1)
	require.Equal(t, body, c.Children[0].ChunkID)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, c.Children[0].Raw)

	var out bytes.Buffer
	require.NoError(t, iff.Write(&out, c, reg))
	require.Equal(t, in, out.Bytes())
}

// (c) PROP inheritance: LIST ILBM { PROP ILBM { CMAP } FORM ILBM {} FORM ILBM { BODY } }.
func TestScenarioC_PropInheritance(t *testing.T) {
	cmap := chunk.NewRaw(chunk.ID{'C', 'M', 'A', 'P'}, []byte{1, 2, 3, 4, 5, 6})
	prop := chunk.NewGroup(chunk.PROP, ilbm, cmap)
	form1 := chunk.NewGroup(chunk.FORM, ilbm)
	form2 := chunk.NewGroup(chunk.FORM, ilbm, chunk.NewRaw(body, []byte{9}))
	list := chunk.NewGroup(chunk.LIST, ilbm, prop, form1, form2)

	require.Same(t, prop, iff.PropertyFor(list, form1))
	require.Same(t, prop, iff.PropertyFor(list, form2))

	level := iff.Check(list, registry.New(), quality.DiscardSink)
	require.Equal(t, quality.Perfect, level)
}

// (d) Misordered PROP: FORM precedes PROP in the same LIST; validator
// degrades to OK or below and reports a finding.
func TestScenarioD_MisorderedPropDegrades(t *testing.T) {
	prop := chunk.NewGroup(chunk.PROP, ilbm, chunk.NewRaw(chunk.ID{'C', 'M', 'A', 'P'}, []byte{1}))
	form1 := chunk.NewGroup(chunk.FORM, ilbm)
	form2 := chunk.NewGroup(chunk.FORM, ilbm)
	list := chunk.NewGroup(chunk.LIST, ilbm, form1, prop, form2)

	sink := &quality.CollectingSink{}
	level := iff.Check(list, registry.New(), sink)

	require.LessOrEqual(t, level, quality.OK)
	require.NotEmpty(t, sink.Findings)
}

// (e) Unknown chunk: FORM "XXXX" { YYYY.size=2, 0xAA 0xBB } with a
// registry that knows nothing about XXXX/YYYY parses to a FORM containing
// one raw chunk. Round-trip holds.
func TestScenarioE_UnknownChunkFallsBackToRaw(t *testing.T) {
	in := []byte{
		'F', 'O', 'R', 'M', 0x00, 0x00, 0x00, 0x0E,
		'X', 'X', 'X', 'X',
		'Y', 'Y', 'Y', 'Y', 0x00, 0x00, 0x00, 0x02,
		0xAA, 0xBB,
	}

	reg := registry.New()
	c, err := iff.Parse(bytes.NewReader(in), reg)
	require.NoError(t, err)
	require.Len(t, c.Children, 1)
	require.Equal(t, chunk.KindRaw, c.Children[0].Kind)
	require.Equal(t, []byte{0xAA, 0xBB}, c.Children[0].Raw)

	var out bytes.Buffer
	require.NoError(t, iff.Write(&out, c, reg))
	require.Equal(t, in, out.Bytes())
}

// (f) Truncated input: FORM claims a 255-byte body but the stream ends
// after the contents type. Parse fails with an I/O error located at
// FORM.TEST.
func TestScenarioF_TruncatedInputReturnsIOError(t *testing.T) {
	in := []byte{
		'F', 'O', 'R', 'M', 0x00, 0x00, 0x00, 0xFF,
		'T', 'E', 'S', 'T',
	}

	reg := registry.New()
	_, err := iff.Parse(bytes.NewReader(in), reg)
	require.Error(t, err)

	var ioErr *ifferr.IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, "FORM.TEST", ioErr.Path.String())
}

// A top-level PROP is a structural error: PROP only has meaning as a
// child of a LIST.
func TestScenarioG_TopLevelPropIsStructuralError(t *testing.T) {
	in := []byte{
		'P', 'R', 'O', 'P', 0x00, 0x00, 0x00, 0x04,
		'T', 'E', 'S', 'T',
	}

	reg := registry.New()
	_, err := iff.Parse(bytes.NewReader(in), reg)
	require.Error(t, err)

	var structErr *ifferr.StructuralError
	require.ErrorAs(t, err, &structErr)
}

// A LIST may only directly contain PROP and FORM children; a raw BODY
// child is a structural error detected during parsing, not a quality
// degradation left for Check.
func TestScenarioH_IllegalChildInListIsStructuralError(t *testing.T) {
	in := []byte{
		'L', 'I', 'S', 'T', 0x00, 0x00, 0x00, 0x10,
		'I', 'L', 'B', 'M',
		'B', 'O', 'D', 'Y', 0x00, 0x00, 0x00, 0x04,
		0x01, 0x02, 0x03, 0x04,
	}

	reg := registry.New()
	_, err := iff.Parse(bytes.NewReader(in), reg)
	require.Error(t, err)

	var structErr *ifferr.StructuralError
	require.ErrorAs(t, err, &structErr)
}

// A child whose declared size overruns its parent's remaining body is a
// structural error, detected before the oversized body is read off the
// stream.
func TestScenarioI_ChildSizeExceedingParentIsStructuralError(t *testing.T) {
	in := []byte{
		'F', 'O', 'R', 'M', 0x00, 0x00, 0x00, 0x0C,
		'T', 'E', 'S', 'T',
		'B', 'O', 'D', 'Y', 0x00, 0x00, 0x03, 0xE8, // declared size 1000
	}

	reg := registry.New()
	_, err := iff.Parse(bytes.NewReader(in), reg)
	require.Error(t, err)

	var structErr *ifferr.StructuralError
	require.ErrorAs(t, err, &structErr)
}

// Universal property 1: round-trip. Property 2: size consistency.
func TestProperty_RoundTripAndSizeConsistency(t *testing.T) {
	body1 := chunk.NewRaw(body, []byte{1, 2, 3})
	form := chunk.NewGroup(chunk.FORM, test, body1)

	reg := registry.New()
	var buf bytes.Buffer
	require.NoError(t, iff.Write(&buf, form, reg))

	roundTripped, err := iff.Parse(bytes.NewReader(buf.Bytes()), reg)
	require.NoError(t, err)
	require.True(t, iff.Compare(form, roundTripped, reg))

	require.EqualValues(t, 4+8+3+1, form.ChunkSize)
}

// Universal property 3: the on-wire byte count of any chunk is even.
func TestProperty_EncodedSizeAlwaysEven(t *testing.T) {
	odd := chunk.NewRaw(body, []byte{1, 2, 3})
	require.EqualValues(t, 0, odd.EncodedSize()%2)

	even := chunk.NewRaw(body, []byte{1, 2})
	require.EqualValues(t, 0, even.EncodedSize()%2)
}

// Universal property 4: freeing a tree twice does not panic.
func TestProperty_FreeIsIdempotentAgainstDoubleInvocation(t *testing.T) {
	form := chunk.NewGroup(chunk.FORM, test, chunk.NewRaw(body, []byte{1}))
	reg := registry.New()

	require.NotPanics(t, func() {
		iff.Free(form, reg)
		iff.Free(form, reg)
	})
}

// Universal property 5: the comparator is reflexive, symmetric, and
// agrees with round-trip equality.
func TestProperty_ComparatorReflexiveAndAgreesWithRoundTrip(t *testing.T) {
	reg := registry.New()
	t1 := chunk.NewGroup(chunk.FORM, test, chunk.NewRaw(body, []byte{1, 2}))
	t2 := chunk.NewGroup(chunk.FORM, test, chunk.NewRaw(body, []byte{1, 2}))
	t3 := chunk.NewGroup(chunk.FORM, test, chunk.NewRaw(body, []byte{9, 9}))

	require.True(t, iff.Compare(t1, t1, reg))
	require.True(t, iff.Compare(t1, t2, reg))
	require.True(t, iff.Compare(t2, t1, reg))
	require.False(t, iff.Compare(t1, t3, reg))

	var buf1, buf2 bytes.Buffer
	require.NoError(t, iff.Write(&buf1, t1, reg))
	require.NoError(t, iff.Write(&buf2, t2, reg))
	r1, err := iff.Parse(bytes.NewReader(buf1.Bytes()), reg)
	require.NoError(t, err)
	r2, err := iff.Parse(bytes.NewReader(buf2.Bytes()), reg)
	require.NoError(t, err)
	require.Equal(t, iff.Compare(r1, r2, reg), iff.Compare(t1, t2, reg))
}

func TestWriteToBytes_MatchesWriteToBuffer(t *testing.T) {
	form := chunk.NewGroup(chunk.FORM, test, chunk.NewRaw(body, []byte{1, 2, 3}))
	reg := registry.New()

	var buf bytes.Buffer
	require.NoError(t, iff.Write(&buf, form, reg))

	out, err := iff.WriteToBytes(form, reg)
	require.NoError(t, err)
	require.Equal(t, buf.Bytes(), out)
}

// Universal property 6: unknown-chunk fallback, restated at the iff level
// (see also TestScenarioE_UnknownChunkFallsBackToRaw).
func TestProperty_UnknownChunkFallbackRoundTrips(t *testing.T) {
	unknown := chunk.NewRaw(chunk.ID{'Z', 'Z', 'Z', 'Z'}, []byte{7, 7})
	form := chunk.NewGroup(chunk.FORM, test, unknown)

	reg := registry.New()
	var buf bytes.Buffer
	require.NoError(t, iff.Write(&buf, form, reg))

	roundTripped, err := iff.Parse(bytes.NewReader(buf.Bytes()), reg)
	require.NoError(t, err)
	require.Equal(t, chunk.KindRaw, roundTripped.Children[0].Kind)
	require.Equal(t, unknown.Raw, roundTripped.Children[0].Raw)
}
