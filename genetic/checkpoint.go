package genetic

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Checkpoint is the resumable state of a search. Individuals keep their
// lineage, so a resumed search recombines exactly as the interrupted one would.
// The concrete individual type must be gob encodable.
type Checkpoint[I any] struct {
	Generation  int
	Repeats     int
	Previous    []string // Keys of the last top set.
	Individuals []I
}

// SaveCheckpoint writes the checkpoint to a gzip compressed gob file.
// The file is replaced atomically.
func SaveCheckpoint[I any](filePath string, checkpoint Checkpoint[I]) (err error) {
	file, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	gzWriter := gzip.NewWriter(file)
	if err = gob.NewEncoder(gzWriter).Encode(checkpoint); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err = gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to compress checkpoint: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to write checkpoint file '%s': %w", filePath, err)
	}
	if err = os.Rename(file.Name(), filePath); err != nil {
		return fmt.Errorf("failed to replace checkpoint file '%s': %w", filePath, err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint written by SaveCheckpoint. A missing file
// is reported with an error wrapping fs.ErrNotExist.
func LoadCheckpoint[I any](filePath string) (Checkpoint[I], error) {
	var checkpoint Checkpoint[I]

	file, err := os.Open(filePath)
	if err != nil {
		return checkpoint, fmt.Errorf("failed to open checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return checkpoint, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	if err := gob.NewDecoder(gzReader).Decode(&checkpoint); err != nil {
		return checkpoint, fmt.Errorf("failed to decode checkpoint '%s': %w", filePath, err)
	}
	return checkpoint, nil
}
