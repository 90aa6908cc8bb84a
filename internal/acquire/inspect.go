// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// pageCount opens the file at path as a PDF and returns its page count.
// The parser panics on some malformed input; that is reported as an error.
func pageCount(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("parsing PDF: %w", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}
