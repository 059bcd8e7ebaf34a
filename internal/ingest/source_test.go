package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

const sampleText = "Jan  5 10:00:02 host app[1]: second\nJan  5 10:00:01 host app[1]: first\n"

var sampleLines = []string{
	"Jan  5 10:00:02 host app[1]: second",
	"Jan  5 10:00:01 host app[1]: first",
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func gzipBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zipBytes(t *testing.T, entries [][2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e[0])
		require.NoError(t, err)
		_, err = f.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestSniff(t *testing.T) {
	assert.Equal(t, Gzip, Sniff([]byte{0x1f, 0x8b, 0x08, 0x00}))
	assert.Equal(t, Zstd, Sniff([]byte{0x28, 0xb5, 0x2f, 0xfd}))
	assert.Equal(t, Zip, Sniff([]byte("PK\x03\x04")))
	assert.Equal(t, Plain, Sniff([]byte("Jan ")))
	assert.Equal(t, Plain, Sniff(nil))
}

func TestReadCompressed(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data []byte
		want Compression
	}{
		{"plain.log", []byte(sampleText), Plain},
		{"packed.log.gz", gzipBytes(t, sampleText), Gzip},
		{"packed.log.zst", zstdBytes(t, sampleText), Zstd},
		{"misnamed.log", gzipBytes(t, sampleText), Gzip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name, tt.data)
			sources, err := Read(path, 0)
			require.NoError(t, err)
			require.Len(t, sources, 1)
			assert.Equal(t, tt.name, sources[0].Name)
			assert.Equal(t, tt.want, sources[0].Compression)
			assert.Equal(t, sampleLines, sources[0].Lines)
		})
	}
}

func TestReadZip(t *testing.T) {
	data := zipBytes(t, [][2]string{
		{"logs/", ""},
		{"logs/host.20240115.kernel.log", "Jan  5 10:00:01 host kernel: a\n"},
		{"host.20240115.sshd.log.gz", string(gzipBytes(t, "Jan  5 10:00:02 host sshd: b\n"))},
	})
	path := writeFile(t, t.TempDir(), "bundle.zip", data)

	sources, err := Read(path, 0)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "bundle.zip/logs/host.20240115.kernel.log", sources[0].Name)
	assert.Equal(t, "logs/host.20240115.kernel.log", sources[0].FileName)
	assert.Equal(t, []string{"Jan  5 10:00:01 host kernel: a"}, sources[0].Lines)
	assert.Equal(t, "bundle.zip/host.20240115.sshd.log.gz", sources[1].Name)
	assert.Equal(t, []string{"Jan  5 10:00:02 host sshd: b"}, sources[1].Lines)
}

func TestReadDecodesText(t *testing.T) {
	dir := t.TempDir()

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(sampleText)
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
	}{
		{"utf16.log", utf16},
		{"bom.log", "\ufeff" + sampleText},
		{"crlf.log", strings.ReplaceAll(sampleText, "\n", "\r\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name, []byte(tt.data))
			sources, err := Read(path, 0)
			require.NoError(t, err)
			require.Len(t, sources, 1)
			assert.Equal(t, sampleLines, sources[0].Lines)
		})
	}
}

func TestReadSkipsLongLines(t *testing.T) {
	data := "short\n" + strings.Repeat("x", 64) + "\n" + strings.Repeat("y", 16) + "\r\nafter"
	path := writeFile(t, t.TempDir(), "long.log", []byte(data))
	sources, err := Read(path, 16)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, []string{"short", "", strings.Repeat("y", 16), "after"}, sources[0].Lines)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.log"), 0)
	require.ErrorIs(t, err, os.ErrNotExist)
}
