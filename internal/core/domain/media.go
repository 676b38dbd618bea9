package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// UploadFile is a single file received for upload.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// StoredObject is an object read back from storage. The caller closes Body.
type StoredObject struct {
	Key           string
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}

// ContentFingerprint is the hex SHA-256 digest of raw content.
func ContentFingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
