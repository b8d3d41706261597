package exbuild

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// recompress rewrites an xlsx container with every part deflated at level.
// Level 0 stores the parts uncompressed.
func recompress(data []byte, level int) ([]byte, error) {
	if level < 0 || level > 9 {
		return nil, fmt.Errorf("compression level %d out of range 0-9", level)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}

	var out bytes.Buffer
	out.Grow(len(data))
	zw := zip.NewWriter(&out)
	method := zip.Store
	if level > 0 {
		method = zip.Deflate
		zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, level)
		})
	}

	for _, f := range zr.File {
		if err := copyPart(zw, f, method); err != nil {
			return nil, fmt.Errorf("rewrite %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func copyPart(zw *zip.Writer, f *zip.File, method uint16) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     f.Name,
		Method:   method,
		Modified: f.Modified,
	})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, rc)
	return err
}
