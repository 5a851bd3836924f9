package compose

import (
	"errors"
	"image"
	"io/fs"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/meur/iconforge/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultBackgrounds maps each rarity that has a backdrop to its image file.
// WHITE is absent on purpose.
func DefaultBackgrounds() map[models.Rarity]string {
	return map[models.Rarity]string{
		models.RarityBlue:   "backgrounds/blue.png",
		models.RarityPurple: "backgrounds/purple.png",
		models.RarityOrange: "backgrounds/orange.png",
		models.RarityRed:    "backgrounds/red.png",
	}
}

// Compositor places a rarity background behind icons
type Compositor struct {
	backgrounds map[models.Rarity]string
	log         logrus.FieldLogger
}

// NormalizeBackgrounds returns a copy of backgrounds keyed by upper-case
// rarity. When two keys differ only in case, the upper-case spelling wins,
// then the lexically first of the rest.
func NormalizeBackgrounds(backgrounds map[models.Rarity]string) map[models.Rarity]string {
	keys := make([]models.Rarity, 0, len(backgrounds))
	for rarity := range backgrounds {
		keys = append(keys, rarity)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := isCanonical(keys[i]), isCanonical(keys[j])
		if ci != cj {
			return ci
		}
		return keys[i] < keys[j]
	})

	out := make(map[models.Rarity]string, len(keys))
	for _, rarity := range keys {
		norm := models.ParseRarity(string(rarity))
		if _, taken := out[norm]; !taken {
			out[norm] = backgrounds[rarity]
		}
	}
	return out
}

func isCanonical(r models.Rarity) bool {
	return models.ParseRarity(string(r)) == r
}

// NewCompositor copies the background catalog so later changes to the
// caller's map have no effect.
func NewCompositor(backgrounds map[models.Rarity]string, log logrus.FieldLogger) *Compositor {
	return &Compositor{
		backgrounds: NormalizeBackgrounds(backgrounds),
		log:         log,
	}
}

// Background returns the file configured for a rarity tag
func (c *Compositor) Background(rarity string) (string, bool) {
	path, ok := c.backgrounds[models.Rarity(strings.ToUpper(rarity))]
	return path, ok
}

// Composite stretches the rarity background to the icon's size and draws
// the icon over it. Tags without a background, and backgrounds that cannot
// be read, leave icon untouched.
func (c *Compositor) Composite(icon image.Image, rarity string) image.Image {
	path, ok := c.Background(rarity)
	if !ok {
		return icon
	}

	bg, err := imaging.Open(path)
	if err != nil {
		entry := c.log.WithFields(logrus.Fields{"rarity": strings.ToUpper(rarity), "path": path}).WithError(err)
		if errors.Is(err, fs.ErrNotExist) {
			entry.Warn("rarity background not found")
		} else {
			entry.Warn("failed to read rarity background")
		}
		return icon
	}

	size := icon.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return icon
	}
	canvas := imaging.Resize(bg, size.X, size.Y, imaging.Lanczos)
	return imaging.Overlay(canvas, icon, image.Pt(0, 0), 1.0)
}
