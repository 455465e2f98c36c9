package model

import "fmt"

// Size is the garment size of a product. Ordinals are persisted, do not reorder.
type Size int16

const (
	SizeXS Size = iota
	SizeS
	SizeM
	SizeL
	SizeXL
	SizeXXL
)

var sizeNames = []string{"XS", "S", "M", "L", "XL", "XXL"}

// IsValid reports whether s is one of the declared sizes.
func (s Size) IsValid() bool {
	return s >= SizeXS && s <= SizeXXL
}

func (s Size) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("Size(%d)", int16(s))
	}
	return sizeNames[s]
}

// ParseSize returns the size with the given name, ignoring case.
func ParseSize(name string) (Size, error) {
	ordinal, ok := lookup(sizeNames, name)
	if !ok {
		return 0, fmt.Errorf("unknown size %q", name)
	}
	return Size(ordinal), nil
}

func (s Size) MarshalJSON() ([]byte, error) {
	return marshalEnum(s)
}

func (s *Size) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, "size", ParseSize)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
