package generator

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
)

// ComputeChecksum computes the hex MD5 digest of data
func ComputeChecksum(data []byte) string {
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:])
}

// ChecksumReader reads r to the end and returns its size and hex MD5 digest
func ChecksumReader(r io.Reader) (int64, string, error) {
	hash := md5.New()
	n, err := io.Copy(hash, r)
	if err != nil {
		return n, "", fmt.Errorf("failed to read data: %w", err)
	}
	return n, hex.EncodeToString(hash.Sum(nil)), nil
}

// GenerateFileData generates size bytes of random data and returns both the
// data and its checksum
func GenerateFileData(rng *RNG, size int) ([]byte, string) {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}

	checksum := ComputeChecksum(data)
	return data, checksum
}
