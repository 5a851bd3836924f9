package icons

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/meur/iconforge/internal/catalog"
	"github.com/meur/iconforge/internal/compose"
	"github.com/meur/iconforge/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeCDN serves a 64x48 half-transparent PNG for IconLoadout and garbage for IconBroken.
func fakeCDN(t *testing.T) *httptest.Server {
	t.Helper()

	icon := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 32; x++ {
			icon.SetNRGBA(x, y, color.NRGBA{G: 200, A: 255})
		}
	}
	iconPNG := encodePNG(t, icon)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/IconLoadout.png", "/IconPlain.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(iconPNG)
		case "/IconBroken.png":
			w.Write([]byte("definitely not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestPipeline(t *testing.T, cdnURL string) *Pipeline {
	t.Helper()

	bg := filepath.Join(t.TempDir(), "orange.png")
	require.NoError(t, imaging.Save(imaging.New(16, 16, color.NRGBA{R: 255, G: 128, A: 255}), bg))

	log := quietLogger()
	return NewPipeline(Options{
		Index: catalog.New("test", []models.Item{
			{ItemID: 203000001, Key: "203000001", Icon: "IconLoadout", Rare: models.RarityOrange},
			{ItemID: 305, Key: "305", Icon: "IconPlain", Rare: models.RarityWhite},
			{ItemID: 306, Key: "306", Icon: "IconBroken", Rare: models.RarityWhite},
			{ItemID: 307, Key: "307", Icon: "IconGone", Rare: models.RarityWhite},
		}),
		Fetcher:    NewFetcher(cdnURL, time.Second),
		Compositor: compose.NewCompositor(map[models.Rarity]string{models.RarityOrange: bg}, log),
		Stamper:    compose.NewStamper("", 20, log),
		Watermark:  "Tanhung11231",
		Logger:     log,
	})
}

func TestHandle(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, fakeCDN(t).URL)

	for _, id := range []string{"203000001", "C1 88 19 0C"} {
		out, err := p.Handle(id)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

		// Top-right corner was transparent in the icon and now shows the orange background.
		_, _, _, a := img.At(63, 0).RGBA()
		assert.Equal(t, uint32(0xffff), a)
	}
}

func TestHandleWhiteKeepsTransparency(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, fakeCDN(t).URL)

	out, err := p.Handle("305")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	_, _, _, a := img.At(63, 0).RGBA()
	assert.Zero(t, a)
}

func TestHandleErrors(t *testing.T) {
	t.Parallel()

	cdn := fakeCDN(t)
	p := newTestPipeline(t, cdn.URL)

	_, err := p.Handle("999999999")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = p.Handle("307")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, cdn.URL+"/IconGone.png", fetchErr.URL)

	_, err = p.Handle("306")
	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "decode", procErr.Stage)
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestResolveInfo(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, "http://unused.invalid")

	item, err := p.ResolveInfo("31 01 00 00")
	require.NoError(t, err)
	assert.Equal(t, "IconPlain", item.Icon)

	_, err = p.ResolveInfo("nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "not_found", outcome(catalog.ErrNotFound))
	assert.Equal(t, "fetch_failed", outcome(&FetchError{URL: "u", StatusCode: 500}))
	assert.Equal(t, "processing_failed", outcome(&ProcessingError{Stage: "encode", Err: io.ErrShortWrite}))
	assert.Equal(t, "error", outcome(io.EOF))
}
