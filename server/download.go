// download.go - Checkpoint-Downloads in das Modell-Verzeichnis
// Dieses Modul laedt Modell-Gewichte von ihrer Registry-URL herunter.
// Downloads laufen in Teilstuecke parallel in eine -partial Datei und
// werden erst nach Groessen-Verifikation an den Zielpfad verschoben.

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/linyu92/sd-webui-segment-anything/dino"
	"github.com/linyu92/sd-webui-segment-anything/format"
)

const (
	maxRetries       = 6
	numDownloadParts = 8

	// minDownloadPartSize verhindert viele kleine Range-Requests
	minDownloadPartSize int64 = 32 * format.MegaByte
)

var errMaxRetriesExceeded = errors.New("max retries exceeded")

// checkpointDownload verwaltet den Download einer Checkpoint-Datei
type checkpointDownload struct {
	URL  string
	Dest string

	Total     int64
	Completed atomic.Int64
}

// DownloadCheckpoint stellt sicher dass der Checkpoint eines Modells
// lokal vorliegt und gibt den Pfad zurueck. Bereits vorhandene
// Dateien werden wiederverwendet (Download-Cache ueber den Dateinamen).
func DownloadCheckpoint(ctx context.Context, d dino.Descriptor) (string, error) {
	dest := d.CheckpointPath()
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}

	b := &checkpointDownload{URL: d.URL, Dest: dest}
	if err := b.run(ctx); err != nil {
		return "", err
	}

	return dest, nil
}

func (b *checkpointDownload) run(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, b.URL, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("checkpoint download %s: %w", b.URL, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("checkpoint download %s: unexpected status %s", b.URL, resp.Status)
	}

	b.Total = resp.ContentLength
	acceptRanges := resp.Header.Get("Accept-Ranges") == "bytes"

	slog.Info("downloading checkpoint", "url", b.URL, "dest", b.Dest, "size", format.HumanBytes(b.Total))

	file, err := os.OpenFile(b.Dest+"-partial", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	if b.Total > 0 && acceptRanges {
		_ = file.Truncate(b.Total)
		if err := b.runParts(ctx, file); err != nil {
			return err
		}
	} else {
		// Server ohne Range-Support: ein Stream
		if err := b.runSingle(ctx, file); err != nil {
			return err
		}
	}

	if b.Total > 0 {
		if fi, err := file.Stat(); err != nil {
			return err
		} else if fi.Size() != b.Total {
			return fmt.Errorf("checkpoint size mismatch: %d != %d", fi.Size(), b.Total)
		}
	}

	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(b.Dest+"-partial", b.Dest)
}

// runParts laedt die Datei in parallelen Range-Teilstuecken
func (b *checkpointDownload) runParts(ctx context.Context, file *os.File) error {
	partSize := b.Total / numDownloadParts
	if partSize < minDownloadPartSize {
		partSize = minDownloadPartSize
	}

	g, inner := errgroup.WithContext(ctx)
	g.SetLimit(numDownloadParts)

	for offset := int64(0); offset < b.Total; offset += partSize {
		offset := offset
		size := partSize
		if offset+size > b.Total {
			size = b.Total - offset
		}

		g.Go(func() error {
			var err error
			for try := 0; try < maxRetries; try++ {
				err = b.downloadPart(inner, file, offset, size)
				switch {
				case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
					return err
				case err != nil:
					sleep := time.Second * time.Duration(math.Pow(2, float64(try)))
					slog.Info(fmt.Sprintf("checkpoint part at %d attempt %d failed: %v, retrying in %s", offset, try, err, sleep))
					time.Sleep(sleep)
				default:
					return nil
				}
			}

			return fmt.Errorf("%w: %w", errMaxRetriesExceeded, err)
		})
	}

	return g.Wait()
}

// downloadPart laedt ein einzelnes Range-Teilstueck an seinen Offset
func (b *checkpointDownload) downloadPart(ctx context.Context, file *os.File, offset, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+size-1))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	n, err := io.Copy(io.NewOffsetWriter(file, offset), io.LimitReader(resp.Body, size))
	completed := b.Completed.Add(n)
	if err != nil {
		return err
	}

	slog.Debug("checkpoint part complete", "offset", offset, "completed", format.HumanBytes(completed), "total", format.HumanBytes(b.Total))
	return nil
}

// runSingle laedt die Datei in einem einzelnen Stream
func (b *checkpointDownload) runSingle(ctx context.Context, file *os.File) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.URL, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	n, err := io.Copy(file, resp.Body)
	if err != nil {
		return err
	}

	if b.Total <= 0 {
		b.Total = n
	}
	b.Completed.Store(n)
	return nil
}
