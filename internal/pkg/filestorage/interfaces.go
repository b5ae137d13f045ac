package filestorage

// FileStorage defines the interface for where generated artefacts live
type FileStorage interface {
	// NewArtifactPath returns a fresh, collision free path with the given
	// extension inside the storage directory
	NewArtifactPath(ext string) string

	// DeleteFile removes a file from storage
	DeleteFile(filePath string) error

	// GetFullPath returns the full filesystem path for a stored file name
	GetFullPath(name string) string
}
