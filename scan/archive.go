package scan

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Archive is a named source of bytes: a jar or zip of class files, or a
// single class file. The kind is taken from the name's suffix.
type Archive interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type fileArchive struct {
	path string
}

// FileArchive reads the archive at path. Its name is the base name of path.
func FileArchive(path string) Archive {
	return fileArchive{path: path}
}

func (a fileArchive) Name() string { return filepath.Base(a.path) }

func (a fileArchive) Open() (io.ReadCloser, error) { return os.Open(a.path) }

func (a fileArchive) String() string { return a.path }

type bytesArchive struct {
	name string
	data []byte
}

// BytesArchive serves data held in memory under the given name.
func BytesArchive(name string, data []byte) Archive {
	return bytesArchive{name: name, data: data}
}

func (a bytesArchive) Name() string { return a.name }

func (a bytesArchive) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(a.data)), nil
}

type archiveKind int

const (
	kindIgnored archiveKind = iota
	kindContainer
	kindClass
)

func kindOf(name string) archiveKind {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".jar"), strings.HasSuffix(lower, ".zip"):
		return kindContainer
	case strings.HasSuffix(lower, ".class"):
		return kindClass
	}
	return kindIgnored
}

func isClassEntry(f *zip.File) bool {
	return !f.FileInfo().IsDir() && strings.HasSuffix(strings.ToLower(f.Name), ".class")
}

// eachClass reads a and calls fn with the bytes of every class unit it
// holds, in archive order. Archives of unknown kind yield nothing.
func eachClass(a Archive, fn func(entry string, data []byte) error) error {
	kind := kindOf(a.Name())
	if kind == kindIgnored {
		log.Debugf("ignoring archive %s", a.Name())
		return nil
	}

	rc, err := a.Open()
	if err != nil {
		return &ArchiveError{Archive: a.Name(), Err: err}
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return &ArchiveError{Archive: a.Name(), Err: err}
	}

	if kind == kindClass {
		if err := fn("", data); err != nil {
			return &ArchiveError{Archive: a.Name(), Err: err}
		}
		return nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return &ArchiveError{Archive: a.Name(), Err: fmt.Errorf("open zip: %w", err)}
	}
	for _, f := range zr.File {
		if !isClassEntry(f) {
			continue
		}
		classData, err := readEntry(f)
		if err != nil {
			return &ArchiveError{Archive: a.Name(), Entry: f.Name, Err: err}
		}
		if err := fn(f.Name, classData); err != nil {
			return &ArchiveError{Archive: a.Name(), Entry: f.Name, Err: err}
		}
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
