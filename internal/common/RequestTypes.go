// This file contains the expected structure of a download request. The command line is parsed into a DownloadRequest,
// which is validated before any directory is created or any file is fetched.

package common

// DownloadRequest is the user's download intent.
// All takes precedence over Name. An empty Name without All also means every scene.
type DownloadRequest struct {
	DownloadPath string `validate:"required"`
	Name         string `validate:"omitempty,sampleScene"`
	All          bool
	// Check verifies existing scene directories instead of downloading.
	Check bool
}

// WantsAll reports whether every scene of every catalog is requested.
func (r *DownloadRequest) WantsAll() bool {
	return r.All || r.Name == ""
}
