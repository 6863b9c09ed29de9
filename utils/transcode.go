package utils

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// register WebP decoding; output is always encoded as JPEG
	_ "golang.org/x/image/webp"
)

// TranscodeResult names the derived assets of a processed upload.
type TranscodeResult struct {
	Filename      string // final main asset storage name
	ThumbFilename string // thumbnail storage name
}

// TranscodeImage normalizes a just-saved upload into the two derived assets:
// a size-capped JPEG main asset and an independently downsized thumbnail
// written as thumb_<base>. Orientation metadata is applied on decode and
// alpha/palette images are flattened onto white before encoding. When the
// final name differs from the saved one (extension changed) the original
// upload is removed after both assets are written. On error the saved file is
// left untouched so the caller can fall back to storing it as-is.
func TranscodeImage(dir, filename string, maxDim, thumbDim, quality, thumbQuality int) (*TranscodeResult, error) {
	srcPath := filepath.Join(dir, filename)

	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	img = flattenToRGB(img)

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	finalName := base + ".jpg"

	// Fit never upscales; small images keep their dimensions.
	main := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	if err := saveJPEG(main, filepath.Join(dir, finalName), quality); err != nil {
		return nil, err
	}

	thumbName := ThumbName(finalName)
	thumb := imaging.Fit(img, thumbDim, thumbDim, imaging.Lanczos)
	if err := saveJPEG(thumb, filepath.Join(dir, thumbName), thumbQuality); err != nil {
		_ = os.Remove(filepath.Join(dir, finalName))
		return nil, err
	}

	if finalName != filename {
		_ = os.Remove(srcPath)
	}

	return &TranscodeResult{Filename: finalName, ThumbFilename: thumbName}, nil
}

// ThumbFromFile derives a thumbnail image from an existing stored asset.
func ThumbFromFile(path string, thumbDim int) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return imaging.Fit(flattenToRGB(img), thumbDim, thumbDim, imaging.Lanczos), nil
}

// saveJPEG writes via a temp file and rename so a failed encode never leaves
// a truncated asset under the final name.
func saveJPEG(img image.Image, path string, quality int) error {
	tmp := filepath.Join(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err := imaging.Save(img, tmp+".jpg", imaging.JPEGQuality(quality)); err != nil {
		_ = os.Remove(tmp + ".jpg")
		return err
	}
	return os.Rename(tmp+".jpg", path)
}

// flattenToRGB composites the image onto a white background, dropping alpha
// and palette modes that JPEG cannot carry.
func flattenToRGB(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
