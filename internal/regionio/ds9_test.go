package regionio

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/astrokit/regions/internal/region"
	"github.com/astrokit/regions/pkg/core"
)

const sampleDS9 = `# Region file format: DS9 version 4.1
global color=green width=1
image
circle(100,200,25) # color=red text={bright knot}
fk5
circle(202.47,47.19,30")
circle(83.63,22.01,0.1d) # width=2 fill=1
galactic
circle(120.5,-3.2,15')
`

func TestReadDS9(t *testing.T) {
	list, err := ReadDS9(strings.NewReader(sampleDS9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Pixel) != 1 || len(list.Sky) != 3 {
		t.Fatalf("expected 1 pixel and 3 sky circles, got %d and %d", len(list.Pixel), len(list.Sky))
	}

	p := list.Pixel[0]
	if p.Center.X != 100 || p.Center.Y != 200 || p.Radius != 25 {
		t.Errorf("unexpected pixel circle %+v", p)
	}
	if p.Visual["color"] != "red" {
		t.Errorf("local color must override global, got %v", p.Visual["color"])
	}
	if p.Meta["text"] != "bright knot" {
		t.Errorf("unexpected text %v", p.Meta["text"])
	}
	if p.Visual["linewidth"] != 1.0 {
		t.Errorf("global width must apply, got %v", p.Visual["linewidth"])
	}

	s := list.Sky[0]
	if s.Center.Frame != core.FrameFK5 {
		t.Errorf("expected fk5 frame, got %s", s.Center.Frame)
	}
	if s.Radius.Unit != core.UnitArcsec || s.Radius.Value != 30 {
		t.Errorf("unexpected radius %+v", s.Radius)
	}
	if math.Abs(s.Radius.Degrees()-30.0/3600) > 1e-12 {
		t.Errorf("unexpected radius in degrees: %g", s.Radius.Degrees())
	}

	if list.Sky[1].Visual["fill"] != true {
		t.Errorf("expected fill attribute, got %v", list.Sky[1].Visual["fill"])
	}
	if list.Sky[1].Visual["linewidth"] != 2.0 {
		t.Errorf("expected width 2, got %v", list.Sky[1].Visual["linewidth"])
	}

	g := list.Sky[2]
	if g.Center.Frame != core.FrameGalactic || g.Radius.Unit != core.UnitArcmin {
		t.Errorf("unexpected galactic circle %+v", g)
	}
}

func TestReadDS9_UnsupportedShape(t *testing.T) {
	_, err := ReadDS9(strings.NewReader("image\nellipse(1,2,3,4,5)\n"))
	if err == nil {
		t.Error("expected error for unsupported shape")
	}
}

func TestReadDS9_BadRadius(t *testing.T) {
	_, err := ReadDS9(strings.NewReader("image\ncircle(1,2,wide)\n"))
	if err == nil {
		t.Error("expected error for unparseable radius")
	}
}

func TestWriteDS9_RoundTrip(t *testing.T) {
	in := &List{}
	p := region.NewPixelCircle(core.PixCoord{X: 10, Y: 20}, 5)
	p.Visual["color"] = "cyan"
	p.Meta["text"] = "calibrator"
	in.Pixel = append(in.Pixel, p)

	s := region.NewSkyCircle(
		core.SkyCoord{Lon: 202.47, Lat: 47.19, Frame: core.FrameFK5},
		core.Angle{Value: 30, Unit: core.UnitArcsec},
	)
	s.Visual["linewidth"] = 2.0
	in.Sky = append(in.Sky, s)

	var buf bytes.Buffer
	if err := WriteDS9(&buf, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := ReadDS9(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Pixel) != 1 || len(out.Sky) != 1 {
		t.Fatalf("expected 1 pixel and 1 sky circle, got %d and %d", len(out.Pixel), len(out.Sky))
	}
	if out.Pixel[0].Visual["color"] != "cyan" || out.Pixel[0].Meta["text"] != "calibrator" {
		t.Errorf("attributes lost on round trip: %+v %+v", out.Pixel[0].Visual, out.Pixel[0].Meta)
	}
	if math.Abs(out.Sky[0].Radius.Degrees()-s.Radius.Degrees()) > 1e-9 {
		t.Errorf("radius drifted: %g vs %g", out.Sky[0].Radius.Degrees(), s.Radius.Degrees())
	}
	if out.Sky[0].Visual["linewidth"] != 2.0 {
		t.Errorf("expected width 2, got %v", out.Sky[0].Visual["linewidth"])
	}
}

func TestWriteDS9_GeodeticRejected(t *testing.T) {
	list := &List{Sky: []*region.SkyCircle{
		region.NewSkyCircle(core.SkyCoord{Frame: core.FrameGeodetic}, core.Deg(1)),
	}}

	if err := WriteDS9(&bytes.Buffer{}, list); err == nil {
		t.Error("expected error for frame without a ds9 representation")
	}
}

func TestIdentifyDS9(t *testing.T) {
	if !IdentifyDS9("sources.reg", nil) {
		t.Error("expected .reg filename to identify")
	}
	if !IdentifyDS9("dump.txt", []byte("# Region file format: DS9 version 4.1\n")) {
		t.Error("expected header sniff to identify")
	}
	if IdentifyDS9("catalog.fits", []byte("SIMPLE  =")) {
		t.Error("expected fits data to not identify")
	}
}

func TestParseDS9Attributes_BraceValue(t *testing.T) {
	attrs := parseDS9Attributes(`color=red text={NGC 1275} width=2`)
	if attrs["color"] != "red" || attrs["text"] != "NGC 1275" || attrs["width"] != "2" {
		t.Errorf("unexpected attributes %v", attrs)
	}
}

func TestReadDS9_HashInsideBraceValue(t *testing.T) {
	// The first # on the line is the attribute delimiter; a # embedded
	// in a brace-wrapped value must survive the split.
	list, err := ReadDS9(strings.NewReader("image\ncircle(4,5,6) # text={knot #3} color=red\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Pixel) != 1 {
		t.Fatalf("expected 1 pixel circle, got %d", len(list.Pixel))
	}

	p := list.Pixel[0]
	if p.Center.X != 4 || p.Center.Y != 5 || p.Radius != 6 {
		t.Errorf("unexpected circle %+v", p)
	}
	if p.Meta["text"] != "knot #3" {
		t.Errorf("embedded # lost from text attribute, got %v", p.Meta["text"])
	}
	if p.Visual["color"] != "red" {
		t.Errorf("attribute after brace value lost, got %v", p.Visual["color"])
	}
}
