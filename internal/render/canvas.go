package render

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// Canvas rasterizes patches onto an in-memory image.
type Canvas struct {
	ctx *gg.Context
}

// NewCanvas creates a canvas of the given pixel dimensions.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{ctx: gg.NewContext(width, height)}
}

// DrawPatch renders a single patch. Style defaults: white opaque 1px
// outline, no fill.
func (c *Canvas) DrawPatch(p *Patch) error {
	if p == nil {
		return fmt.Errorf("nil patch")
	}

	color := "#ffffff"
	if v, ok := p.Style["color"].(string); ok && v != "" {
		color = v
	}
	lineWidth := 1.0
	if v, ok := p.Style["linewidth"].(float64); ok && v > 0 {
		lineWidth = v
	}
	fill := false
	if v, ok := p.Style["fill"].(bool); ok {
		fill = v
	}
	alpha := 1.0
	if v, ok := p.Style["alpha"].(float64); ok && v >= 0 && v < 1 {
		alpha = v
	}

	if r, g, b, ok := hexRGB(color); alpha < 1 && ok {
		c.ctx.SetRGBA(r, g, b, alpha)
	} else {
		c.ctx.SetHexColor(color)
	}
	c.ctx.SetLineWidth(lineWidth)
	c.ctx.DrawCircle(p.Center.X, p.Center.Y, p.Radius)
	if fill {
		return c.ctx.Fill()
	}
	return c.ctx.Stroke()
}

// Image returns the rendered image.
func (c *Canvas) Image() image.Image {
	return c.ctx.Image()
}

// SavePNG writes the canvas to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	return c.ctx.SavePNG(path)
}

// Close releases the underlying context.
func (c *Canvas) Close() error {
	return c.ctx.Close()
}

// hexRGB parses a #rgb or #rrggbb color into unit-range channels.
func hexRGB(hex string) (r, g, b float64, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return float64(v>>16&0xff) / 255,
		float64(v>>8&0xff) / 255,
		float64(v&0xff) / 255,
		true
}
