package pages

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrFileNotFound is returned when the titles file does not exist, so
// the caller can print a corrective hint instead of a raw I/O error.
var ErrFileNotFound = errors.New("pages file not found")

// ReadTitles reads one page title per line from the file at path.
// Titles are whitespace-trimmed and kept in file order; blank lines are
// dropped. No deduplication and no syntax validation: title validity is
// the wiki's concern. An existing file with no non-blank lines yields
// an empty slice, not an error.
func ReadTitles(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	titles, err := readTitles(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return titles, nil
}

func readTitles(r io.Reader) ([]string, error) {
	titles := []string{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		title := strings.TrimSpace(sc.Text())
		if title == "" {
			continue
		}
		titles = append(titles, title)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return titles, nil
}
