package model

import "path/filepath"

// FullPath returns the normalized absolute path obtained by joining Directory
// and Name. Two File values, possibly from different compilation units, that
// refer to the same on-disk file compare equal here even if their (CU, ID)
// identity differs.
func (f *File) FullPath() []byte {
	if f == nil {
		return nil
	}
	joined := filepath.Join(string(f.Directory), string(f.Name))
	abs, err := filepath.Abs(joined)
	if err != nil {
		return []byte(filepath.Clean(joined))
	}
	return []byte(abs)
}
