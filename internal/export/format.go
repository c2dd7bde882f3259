package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	FormatCSV Format = iota
	FormatArrow
	FormatParquet
	FormatNavbin
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatArrow:
		return "arrow"
	case FormatParquet:
		return "parquet"
	case FormatNavbin:
		return "navbin"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "arrow", "ipc", "feather":
		return FormatArrow, nil
	case "parquet":
		return FormatParquet, nil
	case "navbin":
		return FormatNavbin, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

// FormatOf guesses the format from the file extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}
