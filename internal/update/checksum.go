package update

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// ChecksumsAssetName is the conventional name of the SHA-256 manifest attached to releases.
const ChecksumsAssetName = "checksums.txt"

const maxChecksumsSize = 1 << 20

// DownloadChecksums fetches a checksums manifest asset and returns its content.
func (d *Downloader) DownloadChecksums(ctx context.Context, a Asset, headers http.Header) (string, error) {
	resp, err := d.get(ctx, a, headers)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxChecksumsSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	if len(content) > maxChecksumsSize {
		return "", fmt.Errorf("%w: %s is larger than %d bytes", ErrChecksumFailed, a.Name, maxChecksumsSize)
	}

	return string(content), nil
}

// ParseChecksumsFile returns the checksum listed for assetName.
// Lines are "checksum  filename" or "checksum *filename" (binary mode).
// Returns empty string if not found.
func ParseChecksumsFile(content, assetName string) string {
	for _, line := range strings.Split(content, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		if strings.TrimPrefix(parts[1], "*") == assetName {
			return parts[0]
		}
	}

	return ""
}

// VerifyChecksum compares the SHA-256 of filePath with expected (hex, any case).
// An empty expected checksum is accepted without reading the file.
func VerifyChecksum(filePath, expected string) error {
	if expected == "" {
		return nil
	}

	actual, err := CalculateChecksum(filePath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChecksumFailed, err)
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksumFailed, expected, actual)
	}

	return nil
}

// CalculateChecksum calculates the SHA256 checksum of a file.
func CalculateChecksum(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fsError("open", filePath, err)
	}
	defer func() { _ = f.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fsError("read", filePath, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
