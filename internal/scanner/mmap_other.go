//go:build !unix

package scanner

import "errors"

var errMmapUnsupported = errors.New("mmap unsupported")

func mapFile(string) ([]byte, func(), error) {
	return nil, nil, errMmapUnsupported
}
