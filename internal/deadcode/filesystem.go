package deadcode

// FileManager abstracts the filesystem mutations the apply stage and restore
// engine perform, so tests never touch the real filesystem.
type FileManager interface {
	// Remove deletes a file. A missing file is not an error — the deletion
	// is treated as already satisfied.
	Remove(path string) error

	// WriteFile writes data to path, creating parent directories as needed
	// and overwriting any existing file.
	WriteFile(path string, data []byte) error
}
