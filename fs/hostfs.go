package fs

import (
	"path"

	"github.com/spf13/afero"
)

// Import walks hostDir on hostFS and recreates its tree inside dir,
// per spec §4.I "walk a host directory, for each entry create a dir or
// file, recurse; name collisions fail with FileExists". Grounded on the
// teacher's indirect afero dependency, put to direct use here so image
// import/export can be exercised against an in-memory filesystem in
// tests without touching disk.
func Import(hostFS afero.Fs, hostDir string, dir *Dir) error {
	entries, err := afero.ReadDir(hostFS, hostDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		full := path.Join(hostDir, entry.Name())
		if entry.IsDir() {
			num, err := dir.CreateDir(entry.Name())
			if err != nil {
				return err
			}
			if err := Import(hostFS, full, dir.img.OpenDir(num)); err != nil {
				return err
			}
			continue
		}
		data, err := afero.ReadFile(hostFS, full)
		if err != nil {
			return err
		}
		if _, err := dir.CreateFile(entry.Name(), data); err != nil {
			return err
		}
	}
	return nil
}

// Export walks dir and writes its tree into hostDir on hostFS, per spec
// §4.I "reverse [of Import], failing with FsDirNotEmpty when the target
// has content".
func Export(hostFS afero.Fs, hostDir string, dir *Dir) error {
	if entries, err := afero.ReadDir(hostFS, hostDir); err == nil && len(entries) > 0 {
		return ErrFsDirNotEmpty
	}
	if err := hostFS.MkdirAll(hostDir, 0o755); err != nil {
		return err
	}

	entries, err := dir.Collect(false)
	if err != nil {
		return err
	}
	for _, e := range entries {
		full := path.Join(hostDir, e.Name)
		switch e.Type {
		case TypeUserDir:
			if err := hostFS.MkdirAll(full, 0o755); err != nil {
				return err
			}
			if err := Export(hostFS, full, dir.img.OpenDir(e.Num)); err != nil {
				return err
			}
		case TypeFileHeader:
			data, err := ReadFileData(dir.img, e.Num)
			if err != nil {
				return err
			}
			if err := afero.WriteFile(hostFS, full, data, 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}
