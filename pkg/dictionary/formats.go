package dictionary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // key: value records
	FormatMsgpack            // msgpack array of entries
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt"},
		MinSize:     0,
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "Msgpack Dictionary",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     1, // at least an array header
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("format %d: %w", expectedFormat, ErrUnknownFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			log.Debugf("File %s validated as %s", filename, formatInfo.Description)
			return nil
		}
	}
	return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
		filename, ext, formatInfo.Description, formatInfo.Extensions)
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	for _, format := range []FileFormat{FormatText, FormatMsgpack} {
		err := ValidateFileFormat(filename, format)
		if err == nil {
			return format, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return FormatUnknown, err
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s: %w", filename, ErrUnknownFormat)
}

