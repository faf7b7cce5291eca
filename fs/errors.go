package fs

import "errors"

// Sentinel errors for the filesystem kind of spec §7's taxonomy, plus
// the media-kind names relevant to import/export. Named to match the
// concrete identifiers spec §7 calls out literally (FileExists,
// FsDirNotEmpty, PtrToBoot, PtrToRoot); the rest are one sentinel per
// abstract failure kind.
var (
	ErrUnformatted    = errors.New("fs: volume is unformatted")
	ErrWrongBlockSize = errors.New("fs: wrong block size")
	ErrWrongCapacity  = errors.New("fs: wrong image capacity")
	ErrWrongDosType   = errors.New("fs: wrong dos type")
	ErrHasCycles      = errors.New("fs: block graph has cycles")
	ErrCorrupted      = errors.New("fs: corrupted filesystem structure")
	ErrPtrToBoot      = errors.New("fs: pointer references a boot block")
	ErrPtrToRoot      = errors.New("fs: pointer references the root block")
	ErrFileExists     = errors.New("fs: name already exists")
	ErrFsDirNotEmpty  = errors.New("fs: destination directory is not empty")

	ErrNotFound          = errors.New("fs: name not found")
	ErrBitmapExhausted   = errors.New("fs: no free blocks")
	ErrNotADirectory     = errors.New("fs: not a directory")
	ErrNotAFile          = errors.New("fs: not a file")
	ErrUnsupportedFormat   = errors.New("fs: unsupported archive format")
	ErrUnsupportedFileType = errors.New("fs: archive contains no matching image")
)
