package exbuild

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/events"
)

// MIMETypeXLSX is the content type of an OOXML spreadsheet.
const MIMETypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Blob is a built workbook with its content type.
type Blob struct {
	Data []byte
	Type string
}

// Size returns the length of the data in bytes.
func (b *Blob) Size() int {
	return len(b.Data)
}

// Reader returns a reader over the data.
func (b *Blob) Reader() io.Reader {
	return bytes.NewReader(b.Data)
}

// Detect returns the content type sniffed from the data.
func (b *Blob) Detect() string {
	return mimetype.Detect(b.Data).String()
}

// Saver stores a blob under a file name and returns where it was stored.
type Saver interface {
	Save(ctx context.Context, name string, blob *Blob) (string, error)
}

// FileSaver writes blobs to a directory on the local file system.
type FileSaver struct {
	// Dir is the target directory. Empty means the working directory.
	Dir string
}

// Save writes the blob to Dir/name.
func (s FileSaver) Save(ctx context.Context, name string, blob *Blob) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, name)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ToBuffer builds the workbook and returns its bytes.
func (w *Workbook) ToBuffer(ctx context.Context, opts BuildOptions) Result[[]byte] {
	return w.Build(ctx, opts)
}

// ToBlob builds the workbook and wraps the bytes in a Blob.
func (w *Workbook) ToBlob(ctx context.Context, opts BuildOptions) Result[*Blob] {
	res := w.Build(ctx, opts)
	if !res.Success {
		return Fail[*Blob](res.Error)
	}
	return Ok(&Blob{Data: res.Data, Type: opts.ContentType()})
}

// GenerateAndDownload builds the workbook and stores it under fileName with
// the configured Saver. It returns the location reported by the Saver.
func (w *Workbook) GenerateAndDownload(ctx context.Context, fileName string, opts BuildOptions) Result[string] {
	blob := w.ToBlob(ctx, opts)
	if !blob.Success {
		return Fail[string](blob.Error)
	}
	if filepath.Ext(fileName) == "" {
		fileName += ".xlsx"
	}

	data := map[string]any{"file_name": fileName, "bytes": blob.Data.Size()}
	w.emit(ctx, events.DownloadStarted, data)
	location, err := w.saver().Save(ctx, fileName, blob.Data)
	if err != nil {
		e := NewError(KindBuild, fmt.Errorf("save %s: %w", fileName, err))
		w.logger.WithError(err).WithField("file", fileName).Error("download failed")
		w.emit(ctx, events.DownloadError, map[string]any{"file_name": fileName, "error": e.Message})
		return Fail[string](e)
	}
	w.logger.WithField("file", location).Info("workbook saved")
	w.emit(ctx, events.DownloadCompleted, map[string]any{"file_name": fileName, "location": location, "bytes": blob.Data.Size()})
	return Ok(location)
}

func (w *Workbook) saver() Saver {
	if w.opts.Saver != nil {
		return w.opts.Saver
	}
	return FileSaver{}
}
