package output

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Write writes a finished document to path, creating parent directories on
// demand. "-" writes to stdout instead. Content is always written whole;
// callers only hand over fully serialized documents.
func Write(path string, content []byte) error {
	if path == "-" {
		fmt.Print(string(content))
		return nil
	}

	if dir := dirOf(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		log.Debug().Str("path", path).Msg("overwriting existing document")
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(content)).Msg("document written")
	return nil
}

// Backup copies the file at path to a sibling .bak file and returns the
// backup path. Used before a forced rebuild of a document that failed to
// parse.
func Backup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for backup: %w", path, err)
	}
	bak := path + ".bak"
	if err := os.WriteFile(bak, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", bak, err)
	}
	log.Debug().Str("path", path).Str("backup", bak).Msg("backup written")
	return bak, nil
}

func dirOf(path string) string {
	// minimal implementation to avoid importing filepath just for Dir
	// find last '/'
	last := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			last = i
			break
		}
	}
	if last <= 0 {
		return "."
	}
	return path[:last]
}
