// Package zfile handles gzipped flat files for exports and state.
// Writers take an exclusive flock for their lifetime so concurrent
// runs against one data dir don't interleave output.
package zfile

import (
	"bufio"
	"compress/gzip"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rotblauer/stopd/params"
)

type GZFileWriter struct {
	f      *os.File
	gzw    *gzip.Writer
	locked bool
	closed bool

	GZFileWriterConfig
}

type GZFileWriterConfig struct {
	CompressionLevel int
	Flag             int
	FilePerm         os.FileMode
	DirPerm          os.FileMode
}

func DefaultGZFileWriterConfig() *GZFileWriterConfig {
	return &GZFileWriterConfig{
		CompressionLevel: params.DefaultGZipCompressionLevel,
		Flag:             os.O_WRONLY | os.O_APPEND | os.O_CREATE,
		FilePerm:         0660,
		DirPerm:          0770,
	}
}

func NewGZFileWriter(path string, config *GZFileWriterConfig) (*GZFileWriter, error) {
	if config == nil {
		config = DefaultGZFileWriterConfig()
	}
	if err := os.MkdirAll(filepath.Dir(path), config.DirPerm); err != nil {
		return nil, err
	}
	fi, err := os.OpenFile(path, config.Flag, config.FilePerm)
	if err != nil {
		return nil, err
	}
	gzw, err := gzip.NewWriterLevel(fi, config.CompressionLevel)
	if err != nil {
		return nil, err
	}
	return &GZFileWriter{f: fi, gzw: gzw}, nil
}

func (g *GZFileWriter) Write(p []byte) (int, error) {
	g.lock()
	return g.gzw.Write(p)
}

// lock locks the file for exclusive access.
// The lock will be invalidated if and when the file is closed.
func (g *GZFileWriter) lock() {
	if g.locked || g.closed || g.f == nil {
		return
	}
	_ = syscall.Flock(int(g.f.Fd()), syscall.LOCK_EX)
	g.locked = true
}

func (g *GZFileWriter) unlock() {
	if !g.locked || g.closed || g.f == nil {
		return
	}
	_ = syscall.Flock(int(g.f.Fd()), syscall.LOCK_UN)
	g.locked = false
}

func (g *GZFileWriter) Close() error {
	defer func() { g.closed = true }()
	defer g.unlock()
	if err := g.gzw.Flush(); err != nil {
		return err
	}
	if err := g.gzw.Close(); err != nil {
		return err
	}
	return g.f.Close()
}

func (g *GZFileWriter) Path() string {
	return g.f.Name()
}

// NewPlainFileWriter opens an uncompressed file with the same dir
// bootstrap and permissions as the gz writer.
func NewPlainFileWriter(path string) (*os.File, error) {
	config := DefaultGZFileWriterConfig()
	if err := os.MkdirAll(filepath.Dir(path), config.DirPerm); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, config.FilePerm)
}

type GZFileReader struct {
	f      *os.File
	gzr    *gzip.Reader
	closed bool
}

func NewGZFileReader(path string) (*GZFileReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	fi, err := os.OpenFile(path, os.O_RDONLY, 0660)
	if err != nil {
		return nil, err
	}
	gzr, err := gzip.NewReader(fi)
	if err != nil {
		_ = fi.Close()
		return nil, err
	}
	return &GZFileReader{f: fi, gzr: gzr}, nil
}

func (g *GZFileReader) Read(p []byte) (int, error) {
	return g.gzr.Read(p)
}

func (g *GZFileReader) Path() string {
	return g.f.Name()
}

func (g *GZFileReader) Close() error {
	if g.closed {
		return nil
	}
	defer func() { g.closed = true }()
	if err := g.gzr.Close(); err != nil {
		return err
	}
	return g.f.Close()
}

func (g *GZFileReader) LineCount() (int, error) {
	count := 0
	scanner := bufio.NewScanner(g.gzr)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
