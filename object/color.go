package object

import (
	"encoding/json"
	"fmt"
	"image/color"
)

// Color wraps an RGBA color with 8 bits per channel.
type Color struct {
	value color.RGBA
}

func (c *Color) Inspect() string {
	return c.String()
}

func (c *Color) Type() Type {
	return COLOR
}

func (c *Color) Value() color.RGBA {
	return c.value
}

func (c *Color) Interface() interface{} {
	return c.value
}

// String formats the color the way scripts write it: rgb(r,g,b) for opaque
// colors and rgba(r,g,b,a) otherwise.
func (c *Color) String() string {
	v := c.value
	if v.A == 255 {
		return fmt.Sprintf("rgb(%d,%d,%d)", v.R, v.G, v.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", v.R, v.G, v.B, v.A)
}

func (c *Color) Equals(other Object) bool {
	otherColor, ok := other.(*Color)
	if !ok {
		return false
	}
	return c.value == otherColor.value
}

func (c *Color) GetMember(name string) Object {
	switch name {
	case "r", "red":
		return NewInt(int64(c.value.R))
	case "g", "green":
		return NewInt(int64(c.value.G))
	case "b", "blue":
		return NewInt(int64(c.value.B))
	case "a", "alpha":
		return NewInt(int64(c.value.A))
	}
	return MissingMember(c, name)
}

func (c *Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func NewColor(c color.RGBA) *Color {
	return &Color{value: c}
}

// NewColorFromInts builds a color from channel values, clamping each to the
// 0-255 range.
func NewColorFromInts(r, g, b, a int64) *Color {
	return &Color{value: color.RGBA{R: clampByte(r), G: clampByte(g), B: clampByte(b), A: clampByte(a)}}
}

func clampByte(v int64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
