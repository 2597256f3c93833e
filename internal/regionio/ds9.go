package regionio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/astrokit/regions/internal/region"
	"github.com/astrokit/regions/internal/util"
	"github.com/astrokit/regions/pkg/core"
)

// FormatDS9 is the DS9 region text format.
const FormatDS9 = "ds9"

const ds9Header = "# Region file format: DS9 astrokit/regions"

func init() {
	Default.RegisterReader(FormatDS9, ReadDS9)
	Default.RegisterWriter(FormatDS9, WriteDS9)
	Default.RegisterIdentifier(FormatDS9, IdentifyDS9)
}

var ds9Frames = map[string]core.Frame{
	"icrs":     core.FrameICRS,
	"fk5":      core.FrameFK5,
	"galactic": core.FrameGalactic,
}

// IdentifyDS9 claims .reg files and anything carrying the DS9 header
// line.
func IdentifyDS9(name string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(name), ".reg") {
		return true
	}
	return bytes.HasPrefix(data, []byte("# Region file format: DS9"))
}

// ReadDS9 parses DS9 region text. Circles under the image or physical
// frame become pixel circles; circles under a celestial frame become
// sky circles with the radius unit taken from its suffix (" for
// arcseconds, ' for arcminutes, d or none for degrees).
func ReadDS9(r io.Reader) (*List, error) {
	list := &List{}
	frame := "image"
	global := map[string]string{}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "global "); ok {
			global = parseDS9Attributes(rest)
			continue
		}

		lower := strings.ToLower(line)
		if lower == "image" || lower == "physical" {
			frame = "image"
			continue
		}
		if _, ok := ds9Frames[lower]; ok {
			frame = lower
			continue
		}

		shape, attrText, _ := strings.Cut(line, "#")
		shape = strings.TrimSpace(shape)
		inner, ok := strings.CutPrefix(shape, "circle(")
		if !ok || !strings.HasSuffix(inner, ")") {
			return nil, fmt.Errorf("line %d: unsupported region %q", lineNo, shape)
		}
		args := strings.Split(strings.TrimSuffix(inner, ")"), ",")
		if len(args) != 3 {
			return nil, fmt.Errorf("line %d: circle takes 3 arguments, got %d", lineNo, len(args))
		}

		x, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: circle x: %w", lineNo, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: circle y: %w", lineNo, err)
		}

		attrs := make(map[string]string, len(global)+4)
		for k, v := range global {
			attrs[k] = v
		}
		for k, v := range parseDS9Attributes(attrText) {
			attrs[k] = v
		}

		if frame == "image" {
			radius, err := strconv.ParseFloat(strings.TrimSpace(args[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: circle radius: %w", lineNo, err)
			}
			c := region.NewPixelCircle(core.PixCoord{X: x, Y: y}, radius)
			if err := applyDS9Attributes(c.Meta, c.Visual, attrs); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			list.Pixel = append(list.Pixel, c)
			continue
		}

		radius, err := parseDS9Radius(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: circle radius: %w", lineNo, err)
		}
		s := region.NewSkyCircle(core.SkyCoord{Lon: x, Lat: y, Frame: ds9Frames[frame]}, radius)
		if err := applyDS9Attributes(s.Meta, s.Visual, attrs); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		list.Sky = append(list.Sky, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan region file: %w", err)
	}
	return list, nil
}

func parseDS9Radius(s string) (core.Angle, error) {
	s = strings.TrimSpace(s)
	unit := core.UnitDegree
	switch {
	case strings.HasSuffix(s, `"`):
		unit = core.UnitArcsec
		s = strings.TrimSuffix(s, `"`)
	case strings.HasSuffix(s, "'"):
		unit = core.UnitArcmin
		s = strings.TrimSuffix(s, "'")
	case strings.HasSuffix(s, "d"):
		s = strings.TrimSuffix(s, "d")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return core.Angle{}, err
	}
	return core.Angle{Value: v, Unit: unit}, nil
}

// parseDS9Attributes parses "key=value key=value" attribute text.
// Brace-wrapped values keep their embedded spaces.
func parseDS9Attributes(s string) map[string]string {
	attrs := map[string]string{}
	s = strings.TrimSpace(s)
	for len(s) > 0 {
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(s[:eq])
		rest := s[eq+1:]
		var value string
		if strings.HasPrefix(rest, "{") {
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				value, rest = util.TrimBraces(rest), ""
			} else {
				value, rest = rest[1:end], rest[end+1:]
			}
		} else if sp := strings.IndexByte(rest, ' '); sp >= 0 {
			value, rest = rest[:sp], rest[sp+1:]
		} else {
			value, rest = rest, ""
		}
		attrs[key] = util.FixEscapeQuotes(util.TrimQuotes(value))
		s = strings.TrimSpace(rest)
	}
	return attrs
}

func applyDS9Attributes(meta, visual map[string]any, attrs map[string]string) error {
	for k, v := range attrs {
		switch k {
		case "color":
			visual["color"] = v
		case "width":
			w, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("width attribute %q: %w", v, err)
			}
			visual["linewidth"] = w
		case "fill":
			visual["fill"] = v == "1"
		case "text":
			meta["text"] = v
		case "tag":
			meta["tag"] = v
		}
	}
	return nil
}

// WriteDS9 serializes the list as DS9 region text. Pixel circles go
// under a single image frame block; sky circles emit a frame line
// whenever the frame changes. Sky radii are written in degrees.
func WriteDS9(w io.Writer, list *List) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, ds9Header)

	if len(list.Pixel) > 0 {
		fmt.Fprintln(bw, "image")
		for _, c := range list.Pixel {
			fmt.Fprintf(bw, "circle(%g,%g,%g)%s\n",
				c.Center.X, c.Center.Y, c.Radius, formatDS9Attributes(c.Meta, c.Visual))
		}
	}

	current := ""
	for _, s := range list.Sky {
		frame, err := ds9FrameName(s.Center.Frame)
		if err != nil {
			return err
		}
		if frame != current {
			fmt.Fprintln(bw, frame)
			current = frame
		}
		fmt.Fprintf(bw, "circle(%g,%g,%gd)%s\n",
			s.Center.Lon, s.Center.Lat, s.Radius.Degrees(), formatDS9Attributes(s.Meta, s.Visual))
	}
	return bw.Flush()
}

func ds9FrameName(f core.Frame) (string, error) {
	for name, frame := range ds9Frames {
		if frame == f {
			return name, nil
		}
	}
	return "", fmt.Errorf("frame %s has no ds9 representation", f)
}

func formatDS9Attributes(meta, visual map[string]any) string {
	var parts []string
	if v, ok := visual["color"].(string); ok {
		parts = append(parts, "color="+v)
	}
	switch w := visual["linewidth"].(type) {
	case float64:
		parts = append(parts, fmt.Sprintf("width=%g", w))
	case int:
		parts = append(parts, fmt.Sprintf("width=%d", w))
	}
	if f, ok := visual["fill"].(bool); ok && f {
		parts = append(parts, "fill=1")
	}
	if t, ok := meta["text"].(string); ok {
		parts = append(parts, "text={"+t+"}")
	}
	if t, ok := meta["tag"].(string); ok {
		parts = append(parts, "tag={"+t+"}")
	}
	if len(parts) == 0 {
		return ""
	}
	return " # " + strings.Join(parts, " ")
}
