package persist

import (
	"fmt"
	"os"
	"path/filepath"
)

// filePerm is the mode of written documents.
const filePerm = 0o644

// WriteFile encodes value and replaces path with the result. Encoding happens
// before anything touches the disk; the bytes then go to a temporary file in
// the same directory that is renamed over path, so path is either left as it
// was or holds the complete document.
func WriteFile(path string, codec Codec, value any) ([]byte, error) {
	data, err := Marshal(codec, value)
	if err != nil {
		return nil, err
	}

	err = WriteBytes(path, data)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// WriteBytes atomically replaces path with data.
func WriteBytes(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()

	if writeErr != nil || closeErr != nil {
		os.Remove(tmpName)

		if writeErr != nil {
			return fmt.Errorf("write %s: %w", tmpName, writeErr)
		}

		return fmt.Errorf("close %s: %w", tmpName, closeErr)
	}

	err = os.Chmod(tmpName, filePerm)
	if err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("rename to %s: %w", path, err)
	}

	return nil
}
