package imaging

import (
	"image"
	"regexp"
	"strconv"
	"strings"
)

// Gravity anchors a cover crop to an edge or corner of the source image.
// The zero value is the center.
type Gravity string

const (
	GravityCenter    Gravity = ""
	GravityNorth     Gravity = "n"
	GravityNorthEast Gravity = "ne"
	GravityEast      Gravity = "e"
	GravitySouthEast Gravity = "se"
	GravitySouth     Gravity = "s"
	GravitySouthWest Gravity = "sw"
	GravityWest      Gravity = "w"
	GravityNorthWest Gravity = "nw"
)

var gravityNames = map[string]Gravity{
	"center":    GravityCenter,
	"c":         GravityCenter,
	"north":     GravityNorth,
	"n":         GravityNorth,
	"top":       GravityNorth,
	"northeast": GravityNorthEast,
	"ne":        GravityNorthEast,
	"east":      GravityEast,
	"e":         GravityEast,
	"right":     GravityEast,
	"southeast": GravitySouthEast,
	"se":        GravitySouthEast,
	"south":     GravitySouth,
	"s":         GravitySouth,
	"bottom":    GravitySouth,
	"southwest": GravitySouthWest,
	"sw":        GravitySouthWest,
	"west":      GravityWest,
	"w":         GravityWest,
	"left":      GravityWest,
	"northwest": GravityNorthWest,
	"nw":        GravityNorthWest,
}

// CropPoint is a custom crop center, in percent of the source dimensions or
// in source pixels.
type CropPoint struct {
	X, Y    int
	Percent bool
}

// Cropping controls whether and where a resize that changes the aspect ratio
// cuts the source. When disabled the image is fitted inside the requested box.
type Cropping struct {
	Enabled bool
	Gravity Gravity
	Point   *CropPoint

	// origin is set by the "x{X}y{Y}" marker; the crop rectangle is only
	// known once the target size is.
	origin *image.Point
}

var (
	cropOriginRe = regexp.MustCompile(`^x(\d+)[yx](\d+)`)
	cropPointRe  = regexp.MustCompile(`^([pd])(\d+)x(\d+)$`)
)

// ParseCropping reads a cropping specification:
//
//	"", "true", "1", "center"     crop around the center
//	"false", "0", "none"          no cropping
//	"north" ... "nw"              crop anchored to an edge or corner
//	"30%,40%" or "120,80"         crop around a point (percent or pixels)
//	"p30x40" or "d120x80"         the same point in descriptor form
//	"x10y20"                      cut a target sized rectangle at (10, 20)
//
// Unknown values crop around the center.
func ParseCropping(spec string) Cropping {
	s := strings.ToLower(strings.TrimSpace(spec))
	switch s {
	case "", "true", "1", "yes", "on":
		return Cropping{Enabled: true}
	case "false", "0", "no", "off", "none":
		return Cropping{}
	}

	if m := cropOriginRe.FindStringSubmatch(s); m != nil {
		x, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[2])
		return Cropping{Enabled: true, origin: &image.Point{X: x, Y: y}}
	}

	if m := cropPointRe.FindStringSubmatch(s); m != nil {
		x, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		return Cropping{Enabled: true, Point: &CropPoint{X: x, Y: y, Percent: m[1] == "p"}}
	}

	if strings.Contains(s, ",") {
		parts := strings.SplitN(s, ",", 2)
		xs, ys := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		percent := strings.HasSuffix(xs, "%") || strings.HasSuffix(ys, "%")
		x, errX := strconv.Atoi(strings.TrimSuffix(xs, "%"))
		y, errY := strconv.Atoi(strings.TrimSuffix(ys, "%"))
		if errX == nil && errY == nil {
			return Cropping{Enabled: true, Point: &CropPoint{X: x, Y: y, Percent: percent}}
		}
		return Cropping{Enabled: true}
	}

	if g, ok := gravityNames[s]; ok {
		return Cropping{Enabled: true, Gravity: g}
	}
	return Cropping{Enabled: true}
}

// Descriptor is the part of a variant filename that identifies the crop:
// "" for center or no cropping, the gravity code, or "p{x}x{y}" / "d{x}x{y}"
// for a custom point.
func (c Cropping) Descriptor() string {
	if !c.Enabled || c.origin != nil {
		return ""
	}
	if c.Point != nil {
		kind := "d"
		if c.Point.Percent {
			kind = "p"
		}
		return kind + strconv.Itoa(c.Point.X) + "x" + strconv.Itoa(c.Point.Y)
	}
	return string(c.Gravity)
}

// cropWindow returns the sub-rectangle of bounds with the aspect ratio of
// w x h, positioned by the gravity or point of c.
func (c Cropping) cropWindow(bounds image.Rectangle, w, h int) image.Rectangle {
	sw, sh := bounds.Dx(), bounds.Dy()
	cw, ch := sw, sh
	if sw*h > sh*w {
		cw = roundDiv(sh*w, h)
	} else {
		ch = roundDiv(sw*h, w)
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}

	var x, y int
	switch {
	case c.Point != nil:
		cx, cy := c.Point.X, c.Point.Y
		if c.Point.Percent {
			cx, cy = sw*cx/100, sh*cy/100
		}
		x, y = cx-cw/2, cy-ch/2
	default:
		x, y = (sw-cw)/2, (sh-ch)/2
		g := string(c.Gravity)
		if strings.Contains(g, "n") {
			y = 0
		}
		if strings.Contains(g, "s") {
			y = sh - ch
		}
		if strings.Contains(g, "w") {
			x = 0
		}
		if strings.Contains(g, "e") {
			x = sw - cw
		}
	}
	x = clamp(x, 0, sw-cw)
	y = clamp(y, 0, sh-ch)

	at := bounds.Min.Add(image.Pt(x, y))
	return image.Rectangle{Min: at, Max: at.Add(image.Pt(cw, ch))}
}

func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
