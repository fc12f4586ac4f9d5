package tray

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoders for icon assets
	_ "image/jpeg" // register decoders for icon assets
	"image/png"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/image/draw"

	"github.com/6686-repos/dsmodinstaller/internal/logfields"
)

// IconSize is the edge length of the tray icon in pixels.
const IconSize = 16

// LoadIcon reads the image at path and returns it resized for the tray, encoded for the
// current platform. Any failure is logged and yields a blank icon. A nil logger uses
// slog.Default.
func LoadIcon(path string, logger *slog.Logger) []byte {
	data, err := loadIcon(path, runtime.GOOS == "windows")
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("Failed to load tray icon", logfields.Path(path), logfields.Error(err))
		return blankIcon(runtime.GOOS == "windows")
	}
	return data
}

func loadIcon(path string, ico bool) ([]byte, error) {
	if path == "" {
		return nil, errors.New("no icon configured")
	}
	f, err := os.Open(path) // #nosec G304 -- configured asset path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon: %w", err)
	}
	if src.Bounds().Empty() {
		return nil, errors.New("icon image is empty")
	}
	return encodeIcon(resize(src), ico)
}

func resize(src image.Image) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, IconSize, IconSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func blankIcon(ico bool) []byte {
	data, err := encodeIcon(image.NewNRGBA(image.Rect(0, 0, IconSize, IconSize)), ico)
	if err != nil {
		return nil
	}
	return data
}

func encodeIcon(img image.Image, ico bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode icon: %w", err)
	}
	if !ico {
		return buf.Bytes(), nil
	}
	return wrapICO(buf.Bytes(), img.Bounds().Dx(), img.Bounds().Dy()), nil
}

// wrapICO embeds a PNG into a single-image ICO container, which is what the Windows
// tray API expects.
func wrapICO(pngData []byte, width, height int) []byte {
	var buf bytes.Buffer
	header := struct {
		Reserved, Type, Count uint16
	}{0, 1, 1}
	entry := struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{
		// #nosec G115 -- a dimension of 256 is encoded as 0; icons are tiny
		Width:    uint8(width % 256),
		Height:   uint8(height % 256),
		Planes:   1,
		BitCount: 32,
		Size:     uint32(len(pngData)),
		Offset:   6 + 16,
	}
	_ = binary.Write(&buf, binary.LittleEndian, header)
	_ = binary.Write(&buf, binary.LittleEndian, entry)
	buf.Write(pngData)
	return buf.Bytes()
}
