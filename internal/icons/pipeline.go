package icons

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/meur/iconforge/internal/catalog"
	"github.com/meur/iconforge/internal/compose"
	"github.com/meur/iconforge/internal/metrics"
	"github.com/meur/iconforge/internal/models"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"
)

// Pipeline turns an item identifier into a finished icon: resolve the
// record, fetch the base image, put the rarity background behind it,
// stamp the watermark and encode PNG.
type Pipeline struct {
	index      *catalog.Index
	fetcher    *Fetcher
	compositor *compose.Compositor
	stamper    *compose.Stamper
	watermark  string
	log        logrus.FieldLogger
}

// Options wires a Pipeline
type Options struct {
	Index      *catalog.Index
	Fetcher    *Fetcher
	Compositor *compose.Compositor
	Stamper    *compose.Stamper
	Watermark  string
	Logger     logrus.FieldLogger
}

// NewPipeline creates a pipeline from its collaborators
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{
		index:      opts.Index,
		fetcher:    opts.Fetcher,
		compositor: opts.Compositor,
		stamper:    opts.Stamper,
		watermark:  opts.Watermark,
		log:        opts.Logger,
	}
}

// Index returns the dataset index the pipeline resolves against
func (p *Pipeline) Index() *catalog.Index { return p.index }

// ResolveInfo returns the record for rawID without touching the CDN
func (p *Pipeline) ResolveInfo(rawID string) (*models.Item, error) {
	return p.index.Resolve(rawID)
}

// Handle renders the icon for rawID and returns PNG bytes. Errors are
// catalog.ErrNotFound, *FetchError or *ProcessingError.
func (p *Pipeline) Handle(rawID string) ([]byte, error) {
	out, err := p.handle(rawID)
	metrics.RecordRender(outcome(err))
	return out, err
}

func (p *Pipeline) handle(rawID string) ([]byte, error) {
	item, err := p.index.Resolve(rawID)
	if err != nil {
		return nil, err
	}
	entry := p.log.WithFields(logrus.Fields{"id": rawID, "icon": item.Icon, "rarity": item.Rare})

	data, err := p.fetcher.Fetch(item.Icon)
	if err != nil {
		entry.WithError(err).Warn("icon fetch failed")
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ProcessingError{Stage: "decode", Err: err}
	}
	icon := imaging.Clone(src)

	composed := p.compositor.Composite(icon, string(item.Rare))
	canvas, ok := composed.(draw.Image)
	if !ok {
		canvas = imaging.Clone(composed)
	}
	p.stamper.Stamp(canvas, p.watermark)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, &ProcessingError{Stage: "encode", Err: err}
	}

	entry.WithField("bytes", buf.Len()).Debug("icon rendered")
	return buf.Bytes(), nil
}

func outcome(err error) string {
	var (
		fetchErr *FetchError
		procErr  *ProcessingError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, catalog.ErrNotFound):
		return "not_found"
	case errors.As(err, &fetchErr):
		return "fetch_failed"
	case errors.As(err, &procErr):
		return "processing_failed"
	default:
		return "error"
	}
}
