package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Compression identifies how a source was stored on disk.
type Compression int

const (
	Plain Compression = iota
	Gzip
	Zstd
	Zip
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case Zip:
		return "zip"
	default:
		return "plain"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
)

// Sniff reports the compression of data from its leading magic bytes.
func Sniff(magic []byte) Compression {
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		return Gzip
	case bytes.HasPrefix(magic, zstdMagic):
		return Zstd
	case bytes.HasPrefix(magic, zipMagic):
		return Zip
	default:
		return Plain
	}
}

// DefaultMaxLineBytes caps a single line when no limit is configured.
const DefaultMaxLineBytes = 1024 * 1024

// Source is the decoded text of one log file or archive entry.
type Source struct {
	// Name is the display name, "archive.zip/entry.log" for archive entries.
	Name string
	// FileName is the name handed to the line parser.
	FileName    string
	Path        string
	Compression Compression
	Lines       []string
}

// Read opens path and returns its decoded lines. Zip archives yield one
// source per regular file entry, in archive order. On a read error the lines
// read so far are returned with the error.
func Read(path string, maxLineBytes int) ([]Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	magic, _ := br.Peek(len(zipMagic))
	base := filepath.Base(path)

	if Sniff(magic) == Zip {
		info, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		return readZip(file, info.Size(), path, maxLineBytes)
	}

	src := Source{Name: base, FileName: base, Path: path, Compression: Sniff(magic)}
	src.Lines, err = readStream(br, maxLineBytes)
	if err != nil {
		return []Source{src}, fmt.Errorf("read %s: %w", path, err)
	}
	return []Source{src}, nil
}

func readZip(r io.ReaderAt, size int64, path string, maxLineBytes int) ([]Source, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}
	base := filepath.Base(path)
	var sources []Source
	for _, entry := range archive.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		src := Source{
			Name:        base + "/" + entry.Name,
			FileName:    entry.Name,
			Path:        path,
			Compression: Zip,
		}
		rc, err := entry.Open()
		if err != nil {
			return sources, fmt.Errorf("open zip entry %s: %w", src.Name, err)
		}
		src.Lines, err = readStream(bufio.NewReader(rc), maxLineBytes)
		rc.Close()
		sources = append(sources, src)
		if err != nil {
			return sources, fmt.Errorf("read zip entry %s: %w", src.Name, err)
		}
	}
	return sources, nil
}

// readStream decompresses a gzip or zstd stream if needed and splits the
// decoded text into lines.
func readStream(br *bufio.Reader, maxLineBytes int) ([]string, error) {
	magic, _ := br.Peek(len(zstdMagic))
	var r io.Reader = br
	switch Sniff(magic) {
	case Gzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	case Zstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	return readLines(decodeText(r), maxLineBytes)
}

// decodeText honours a leading UTF-8 or UTF-16 byte order mark and otherwise
// reads the input as UTF-8.
func decodeText(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// readLines splits r into lines. A line longer than maxLineBytes is kept as
// an empty line so it still counts as read and dropped.
func readLines(r io.Reader, maxLineBytes int) ([]string, error) {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	br := bufio.NewReaderSize(r, min(64*1024, maxLineBytes))

	var (
		lines   []string
		buf     []byte
		tooLong bool
	)
	for {
		frag, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
		if !tooLong && len(buf)+len(frag) > maxLineBytes {
			tooLong = true
			buf = buf[:0]
		}
		if !tooLong {
			buf = append(buf, frag...)
		}
		if isPrefix {
			continue
		}
		line := string(buf)
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		lines = append(lines, line)
		buf = buf[:0]
		tooLong = false
	}
}
