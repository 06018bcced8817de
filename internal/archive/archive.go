// Package archive bundles a results tree into a zip file.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/klauspost/compress/zip"
	"github.com/moby/sys/atomicwriter"
)

// Result describes a written archive.
type Result struct {
	Path  string
	Files int
	Size  int64
}

// Create writes every regular file under srcDir into a zip at dest. Entry
// names are relative to the parent of srcDir, so "results/a.json" keeps its
// "results/" prefix. dest itself is skipped when it lies inside srcDir.
//
// The zip is built in a scratch file and then copied into place through an
// atomic writer, so a failed or cancelled run leaves any previous archive
// untouched.
func Create(ctx context.Context, srcDir, dest string) (*Result, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, fmt.Errorf("archive source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("archive source %s is not a directory", srcDir)
	}

	srcAbs, err := filepath.Abs(srcDir)
	if err != nil {
		return nil, err
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return nil, err
	}

	scratch, err := os.CreateTemp("", "scaleup-archive-*.zip")
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	defer func() {
		scratch.Close()
		os.Remove(scratch.Name())
	}()

	result := &Result{Path: dest}
	if result.Files, err = writeZip(ctx, scratch, srcAbs, destAbs, scratch.Name()); err != nil {
		return nil, err
	}
	if _, err := scratch.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("finishing archive: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destAbs), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	w, err := atomicwriter.New(destAbs, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	if _, err := io.Copy(w, scratch); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing archive: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finishing archive: %w", err)
	}

	if st, err := os.Stat(destAbs); err == nil {
		result.Size = st.Size()
	}
	return result, nil
}

// writeZip streams the files under srcAbs into w and returns how many were
// added. Paths listed in skip are left out.
func writeZip(ctx context.Context, w io.Writer, srcAbs string, skip ...string) (int, error) {
	base := filepath.Dir(srcAbs)
	zw := zip.NewWriter(w)
	files := 0

	walkErr := filepath.WalkDir(srcAbs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() || slices.Contains(skip, path) {
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		if err := addFile(zw, path, filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("adding %s: %w", rel, err)
		}
		files++
		return nil
	})
	if walkErr != nil {
		return 0, walkErr
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("finishing archive: %w", err)
	}
	return files, nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
