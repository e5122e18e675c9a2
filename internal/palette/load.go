package palette

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	exif "github.com/dsoprea/go-exif/v3"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/nao1215/colorcarbon/internal/model"
)

// MaxImageSize is the largest encoded image Load accepts (32MB).
const MaxImageSize = 32 * 1024 * 1024

var (
	// ErrUnsupportedImage is returned when the data is not a decodable image.
	ErrUnsupportedImage = errors.New("unsupported or corrupt image")

	// ErrImageTooLarge is returned when the encoded image exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("image exceeds maximum size")
)

// metadataTags are the EXIF tags copied into ImageInfo.Metadata.
var metadataTags = map[string]struct{}{
	"Make":             {},
	"Model":            {},
	"Software":         {},
	"DateTimeOriginal": {},
	"ColorSpace":       {},
	"Artist":           {},
}

// Source is a decoded image plus what is known about it.
type Source struct {
	Image image.Image
	Info  model.ImageInfo
}

// Load decodes a PNG, JPEG, GIF or WebP image from r.
// Missing or unreadable EXIF data leaves Info.Metadata empty.
func Load(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	bounds := img.Bounds()
	return &Source{
		Image: img,
		Info: model.ImageInfo{
			Format:   format,
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
			Metadata: readMetadata(data),
		},
	}, nil
}

// LoadFile opens path and decodes it with Load.
func LoadFile(path string) (*Source, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func readMetadata(data []byte) map[string]string {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	metadata := make(map[string]string)
	for _, entry := range entries {
		if _, ok := metadataTags[entry.TagName]; !ok {
			continue
		}
		if entry.Formatted == "" {
			continue
		}
		metadata[entry.TagName] = entry.Formatted
	}

	if len(metadata) == 0 {
		return nil
	}
	return metadata
}
