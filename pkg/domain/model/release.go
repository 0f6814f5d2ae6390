package model

import "time"

// Release is a published GitHub release reduced to what generators consume.
type Release struct {
	Tag         string    `json:"tag"`
	Name        string    `json:"name,omitempty"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url,omitempty"`
	Body        string    `json:"body,omitempty"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
}

// Stable returns releases that are not flagged as prerelease, keeping order.
func Stable(releases []*Release) []*Release {
	var result []*Release
	for _, r := range releases {
		if !r.Prerelease {
			result = append(result, r)
		}
	}
	return result
}
