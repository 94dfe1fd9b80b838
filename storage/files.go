package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Payment proof files (comprobantes) live on local disk under
// UPLOADS_DIR/comprobantes/<reservationID>/. Only the file name is persisted
// on the Payment row.

const MaxProofFileSize = 5 << 20 // 5MB

var allowedProofExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

var (
	ErrProofTooLarge = errors.New("file too large, max 5MB")
	ErrProofBadType  = errors.New("invalid file type, allowed: JPG, PNG, WEBP, PDF")
	ErrProofBadName  = errors.New("invalid file name")
	ErrProofNotFound = errors.New("file not found")
)

func uploadsRoot() string {
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		return dir
	}
	return "uploads"
}

func proofDir(reservationID uint) string {
	return filepath.Join(uploadsRoot(), "comprobantes", fmt.Sprintf("%d", reservationID))
}

// SaveProofFile validates and stores an uploaded proof, returning the
// generated file name to persist on the payment.
func SaveProofFile(reservationID uint, originalName string, data []byte) (string, error) {
	if len(data) > MaxProofFileSize {
		return "", ErrProofTooLarge
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedProofExtensions[ext] {
		return "", ErrProofBadType
	}

	fileName := fmt.Sprintf("comprobante-%d%s", time.Now().UnixNano(), ext)
	dir := proofDir(reservationID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), data, 0o644); err != nil {
		return "", err
	}
	return fileName, nil
}

// ProofFilePath resolves a stored proof, rejecting traversal attempts.
func ProofFilePath(reservationID uint, fileName string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) {
		return "", ErrProofBadName
	}
	path := filepath.Join(proofDir(reservationID), fileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrProofNotFound
		}
		return "", err
	}
	return path, nil
}

// ReadProofFile loads a stored proof.
func ReadProofFile(reservationID uint, fileName string) ([]byte, error) {
	path, err := ProofFilePath(reservationID, fileName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// DeleteProofFile removes a stored proof; a missing file is not an error.
func DeleteProofFile(reservationID uint, fileName string) error {
	path, err := ProofFilePath(reservationID, fileName)
	if err != nil {
		if errors.Is(err, ErrProofNotFound) {
			return nil
		}
		return err
	}
	return os.Remove(path)
}
