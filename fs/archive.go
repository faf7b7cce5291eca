package fs

import (
	"bytes"
	"io"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zstd"
	rardecode "github.com/nwaples/rardecode/v2"
	"github.com/ulikunitz/xz"
)

// ArchiveFormat identifies a compressed container an image may arrive
// packed in, per SPEC_FULL's domain-stack wiring of the pack's archive
// libraries into disk-image mounting.
type ArchiveFormat int

const (
	ArchiveNone ArchiveFormat = iota
	Archive7z
	ArchiveRAR
	ArchiveXZ
	ArchiveZstd
)

// DetectArchive sniffs data's magic bytes.
func DetectArchive(data []byte) ArchiveFormat {
	switch {
	case len(data) >= 6 && bytes.Equal(data[:6], []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}):
		return Archive7z
	case len(data) >= 7 && bytes.Equal(data[:7], []byte("Rar!\x1A\x07\x00")):
		return ArchiveRAR
	case len(data) >= 6 && bytes.Equal(data[:6], []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}):
		return ArchiveXZ
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x28, 0xB5, 0x2F, 0xFD}):
		return ArchiveZstd
	default:
		return ArchiveNone
	}
}

// ExtractImage unwraps the container identified by DetectArchive. For 7z
// and RAR it returns the first member whose decompressed size is SizeDD
// or SizeHD, or ErrUnsupportedFileType if none is; XZ and Zstd streams
// are returned whole with no size check. Data that is not a recognized
// archive returns ErrUnsupportedFormat.
func ExtractImage(data []byte) ([]byte, error) {
	switch DetectArchive(data) {
	case Archive7z:
		return extract7z(data)
	case ArchiveRAR:
		return extractRAR(data)
	case ArchiveXZ:
		return extractSingleStream(xz.NewReader, data)
	case ArchiveZstd:
		return extractZstd(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func isImageSize(n int64) bool { return n == SizeDD || n == SizeHD }

func extract7z(data []byte) ([]byte, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	for _, f := range r.File {
		if !isImageSize(int64(f.UncompressedSize)) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, ErrUnsupportedFileType
}

func extractRAR(data []byte) ([]byte, error) {
	r, err := rardecode.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			return nil, ErrUnsupportedFileType
		}
		if err != nil {
			return nil, err
		}
		if !isImageSize(hdr.UnPackedSize) {
			continue
		}
		return io.ReadAll(r)
	}
}

func extractSingleStream(newReader func(io.Reader) (*xz.Reader, error), data []byte) ([]byte, error) {
	r, err := newReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func extractZstd(data []byte) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
