// Package hashing computes the content digests used as processed-set keys.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"os"
)

// FileDigest returns the SHA-256 of the file's raw bytes as a hex string.
// The file is streamed in bounded chunks, so memory use is independent of
// file size, and the digest depends only on content, never on name or mtime.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			log.Printf("close file error: %v", err)
		}
	}(f)

	h := sha256.New()
	buf := make([]byte, 8192)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
