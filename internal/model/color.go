package model

import "fmt"

// Color is the color of a product. Ordinals are persisted, do not reorder.
type Color int16

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
	ColorBlack
	ColorWhite
	ColorYellow
	ColorPink
	ColorOrange
	ColorPurple
	ColorGrey
)

var colorNames = []string{"Red", "Green", "Blue", "Black", "White", "Yellow", "Pink", "Orange", "Purple", "Grey"}

// IsValid reports whether c is one of the declared colors.
func (c Color) IsValid() bool {
	return c >= ColorRed && c <= ColorGrey
}

func (c Color) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("Color(%d)", int16(c))
	}
	return colorNames[c]
}

// ParseColor returns the color with the given name, ignoring case.
func ParseColor(name string) (Color, error) {
	ordinal, ok := lookup(colorNames, name)
	if !ok {
		return 0, fmt.Errorf("unknown color %q", name)
	}
	return Color(ordinal), nil
}

func (c Color) MarshalJSON() ([]byte, error) {
	return marshalEnum(c)
}

func (c *Color) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, "color", ParseColor)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
