package file

import (
	"fmt"
	"net/http"
)

// ImageType describes an accepted image format.
type ImageType struct {
	Ext  string // file extension without the dot
	MIME string
}

var (
	PNG  = ImageType{Ext: "png", MIME: "image/png"}
	JPEG = ImageType{Ext: "jpg", MIME: "image/jpeg"}
)

// UnsupportedTypeError is returned by DetectImageType for content that is not
// an accepted image. MIME holds the detected type.
type UnsupportedTypeError struct {
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedMediaType, e.MIME)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedMediaType
}

// DetectImageType sniffs the actual media type from the leading bytes.
// File names and client-declared content types are never consulted.
func DetectImageType(data []byte) (ImageType, error) {
	if len(data) == 0 {
		return ImageType{}, ErrEmptyFile
	}

	// http.DetectContentType reads at most 512 bytes
	mime := http.DetectContentType(data)
	switch mime {
	case "image/png":
		return PNG, nil
	case "image/jpeg", "image/jpg":
		return JPEG, nil
	default:
		return ImageType{}, &UnsupportedTypeError{MIME: mime}
	}
}
