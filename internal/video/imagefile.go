package video

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"

	"golang.org/x/image/bmp"
)

// ReadImage decodes a png, jpeg or bmp file
func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteImage encodes m as png or bmp based on the file extension
func WriteImage(path string, m image.Image) (err error) {
	var encode func(f *os.File) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, m) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, m) }
	default:
		return fmt.Errorf("%s: unknown image extension, use .png or .bmp", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := f.Close(); err == nil {
			err = cErr
		}
	}()

	return encode(f)
}
