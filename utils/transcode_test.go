package utils

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNGFixture(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 200})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestTranscodeImageCapsDimensions(t *testing.T) {
	dir := t.TempDir()
	writePNGFixture(t, dir, "big.png", 2400, 1600)

	res, err := TranscodeImage(dir, "big.png", 1200, 400, 85, 80)
	require.NoError(t, err)
	assert.Equal(t, "big.jpg", res.Filename)
	assert.Equal(t, "thumb_big.jpg", res.ThumbFilename)

	main, err := imaging.Open(filepath.Join(dir, res.Filename))
	require.NoError(t, err)
	b := main.Bounds()
	assert.LessOrEqual(t, b.Dx(), 1200)
	assert.LessOrEqual(t, b.Dy(), 1200)
	// aspect ratio preserved: 2400x1600 fits to 1200x800
	assert.Equal(t, 1200, b.Dx())
	assert.Equal(t, 800, b.Dy())

	thumb, err := imaging.Open(filepath.Join(dir, res.ThumbFilename))
	require.NoError(t, err)
	tb := thumb.Bounds()
	assert.LessOrEqual(t, tb.Dx(), 400)
	assert.LessOrEqual(t, tb.Dy(), 400)

	// extension changed, original upload removed
	_, err = os.Stat(filepath.Join(dir, "big.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestTranscodeImageNeverUpscales(t *testing.T) {
	dir := t.TempDir()
	writePNGFixture(t, dir, "small.png", 300, 200)

	res, err := TranscodeImage(dir, "small.png", 1200, 400, 85, 80)
	require.NoError(t, err)

	main, err := imaging.Open(filepath.Join(dir, res.Filename))
	require.NoError(t, err)
	assert.Equal(t, 300, main.Bounds().Dx())
	assert.Equal(t, 200, main.Bounds().Dy())
}

func TestTranscodeImageCorruptFileLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := TranscodeImage(dir, "broken.jpg", 1200, 400, 85, 80)
	require.Error(t, err)

	// original must remain so the caller can keep it as-is
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not an image", string(data))

	_, err = os.Stat(filepath.Join(dir, "thumb_broken.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestThumbFromFile(t *testing.T) {
	dir := t.TempDir()
	writePNGFixture(t, dir, "asset.png", 900, 600)

	thumb, err := ThumbFromFile(filepath.Join(dir, "asset.png"), 400)
	require.NoError(t, err)
	assert.Equal(t, 400, thumb.Bounds().Dx())
	assert.Equal(t, 266, thumb.Bounds().Dy())
}
