package card

import (
	"fmt"
	"strings"
)

// Size names one of the image renditions Scryfall serves for a card face.
// W and H are the pixel dimensions of the rendition and Format its file
// extension. APIName is the value sent in the image request, which differs
// from Name only for the full-resolution PNG.
type Size struct {
	Name    string
	APIName string
	W       int
	H       int
	Format  string
}

var (
	SizeSmall  = Size{Name: "small", APIName: "small", W: 146, H: 204, Format: "jpg"}
	SizeNormal = Size{Name: "normal", APIName: "normal", W: 488, H: 680, Format: "jpg"}
	SizeLarge  = Size{Name: "large", APIName: "large", W: 672, H: 936, Format: "jpg"}
	SizeFull   = Size{Name: "full", APIName: "png", W: 745, H: 1040, Format: "png"}
)

func (s Size) String() string {
	return s.Name
}

// SizeFromString resolves a size by name.
func SizeFromString(name string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "small":
		return SizeSmall, nil
	case "normal":
		return SizeNormal, nil
	case "large":
		return SizeLarge, nil
	case "full", "png":
		return SizeFull, nil
	}
	return Size{}, fmt.Errorf("unknown image size %q", name)
}

// PadNumber left-pads a collector number to three digits. Non-numeric
// suffixes such as "12a" keep their suffix after the padded digits.
func PadNumber(number string) string {
	digits := 0
	for digits < len(number) && number[digits] >= '0' && number[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return number
	}
	padded := number[:digits]
	for len(padded) < 3 {
		padded = "0" + padded
	}
	return padded + number[digits:]
}

// ImageSlug names the image file for a card at the given size, matching the
// layout used by the download cache.
func ImageSlug(c Card, s Size) string {
	set := strings.ToUpper(c.Set)
	return fmt.Sprintf("%s-%s-front-%s-%s.%s", set, PadNumber(c.Number), s.Name, c.Language, s.Format)
}
