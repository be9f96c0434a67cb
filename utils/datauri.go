package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrImageTooLarge = errors.New("image exceeds size limit")
	ErrNotAnImage    = errors.New("file is not an image")
)

// ImageDataURI reads at most limit bytes from r and returns them as a
// data:<mime>;base64 URI. The content type is sniffed, not trusted from the client.
func ImageDataURI(r io.Reader, limit int64) (string, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if n > limit {
		return "", ErrImageTooLarge
	}
	mt := mimetype.Detect(buf.Bytes())
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotAnImage
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
