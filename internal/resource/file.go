package resource

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// fileReader is the operation bundle for read mode.
type fileReader struct {
	path string
}

func (f *fileReader) read() (string, error) {
	const op = "read"
	if err := checkFile(op, f.path); err != nil {
		return "", err
	}
	if !readable(f.path) {
		return "", errf(KindPermission, op, f.path, "no read permission")
	}

	fh, err := os.Open(f.path)
	if err != nil {
		return "", classifyFSError(op, f.path, err)
	}
	defer fh.Close()

	data, err := io.ReadAll(fh)
	if err != nil {
		return "", wrap(KindOther, op, f.path, err)
	}
	return string(data), nil
}

// fileWriter is the operation bundle for write and append modes.
type fileWriter struct {
	path     string
	appendTo bool
}

func (w *fileWriter) write(content string) error {
	op := "write"
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if w.appendTo {
		op = "append"
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	if err := ensureWritable(op, w.path); err != nil {
		return err
	}

	fh, err := os.OpenFile(w.path, flags, 0644)
	if err != nil {
		return classifyFSError(op, w.path, err)
	}
	defer fh.Close()

	if _, err := fh.WriteString(content); err != nil {
		return wrap(KindOther, op, w.path, err)
	}
	return nil
}

// checkFile verifies that path names an existing regular file. A
// directory counts as missing, matching the read-mode contract.
func checkFile(op, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errf(KindNotFound, op, path, "file does not exist")
		}
		return classifyFSError(op, path, err)
	}
	if info.IsDir() {
		return errf(KindNotFound, op, path, "target is a directory, not a file")
	}
	return nil
}

// ensureWritable creates the parent directory tree for a fresh target
// and verifies write access before any open is attempted.
func ensureWritable(op, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return wrap(KindPermission, op, path, err)
	}

	if _, err := os.Stat(path); err == nil {
		if !writable(path) {
			return errf(KindPermission, op, path, "no write permission")
		}
	} else if !writable(dir) {
		return errf(KindPermission, op, path,
			"no permission to create files in %q", dir)
	}
	return nil
}

func classifyFSError(op, path string, err error) *Error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return wrap(KindNotFound, op, path, err)
	case errors.Is(err, fs.ErrPermission):
		return wrap(KindPermission, op, path, err)
	default:
		return wrap(KindOther, op, path, err)
	}
}
