package compose

import (
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const shadowOffset = 2

var (
	shadowColor = color.NRGBA{A: 128}
	textColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Stamper draws centered watermark text with a drop shadow.
//
// A parsed opentype.Font is shared, but faces are not safe for concurrent
// use, so every Stamp call opens its own.
type Stamper struct {
	font *opentype.Font // nil selects the bitmap fallback
	size float64
	log  logrus.FieldLogger
}

// NewStamper loads the font at path for rendering at size points (72 DPI).
// An empty path selects the embedded Go Regular face. A path that cannot be
// read or parsed is logged and the built-in 7x13 bitmap face is used instead.
func NewStamper(path string, size float64, log logrus.FieldLogger) *Stamper {
	s := &Stamper{size: size, log: log}

	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).WithField("font", path).Warn("watermark font unavailable, using bitmap font")
			return s
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		log.WithError(err).WithField("font", path).Warn("watermark font unreadable, using bitmap font")
		return s
	}
	s.font = f
	return s
}

// Scalable reports whether an outline font was loaded
func (s *Stamper) Scalable() bool { return s.font != nil }

func (s *Stamper) face() font.Face {
	if s.font == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    s.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		s.log.WithError(err).Warn("failed to create font face, using bitmap font")
		return basicfont.Face7x13
	}
	return face
}

// Stamp draws text centered on img, first as a translucent black shadow
// offset by two pixels, then in opaque white. img is modified and returned.
func (s *Stamper) Stamp(img draw.Image, text string) draw.Image {
	face := s.face()
	defer face.Close()

	bounds, _ := font.BoundString(face, text)
	textW := (bounds.Max.X - bounds.Min.X).Ceil()
	textH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	r := img.Bounds()
	x := r.Min.X + (r.Dx()-textW)/2 - bounds.Min.X.Floor()
	y := r.Min.Y + (r.Dy()-textH)/2 - bounds.Min.Y.Floor()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(shadowColor),
		Face: face,
		Dot:  fixed.P(x+shadowOffset, y+shadowOffset),
	}
	d.DrawString(text)

	d.Src = image.NewUniform(textColor)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)

	return img
}
