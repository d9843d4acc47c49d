package storage

import (
	"path"
	"path/filepath"
	"strings"
)

const s3Scheme = "s3://"

// Location addresses a document either on the local filesystem or in S3.
type Location struct {
	Path   string `json:"path,omitempty"`
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`
}

// ParseLocation accepts a filesystem path or an s3://bucket/key URL.
func ParseLocation(raw string) Location {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, s3Scheme); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		return Location{Bucket: bucket, Key: key}
	}
	return Location{Path: raw}
}

// ParseLocations parses every non-empty entry of raws, dropping duplicates
// while keeping first-seen order.
func ParseLocations(raws ...string) []Location {
	seen := make(map[string]bool, len(raws))
	var out []Location
	for _, raw := range raws {
		loc := ParseLocation(raw)
		if loc.IsZero() || seen[loc.String()] {
			continue
		}
		seen[loc.String()] = true
		out = append(out, loc)
	}
	return out
}

// IsS3 reports whether l refers to an S3 object.
func (l Location) IsS3() bool { return l.Bucket != "" }

// IsZero reports whether l addresses nothing.
func (l Location) IsZero() bool { return l.Path == "" && l.Bucket == "" }

func (l Location) String() string {
	if l.IsS3() {
		return s3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// Sibling returns the location of name in the same directory (or key prefix) as l.
func (l Location) Sibling(name string) Location {
	if l.IsS3() {
		return Location{Bucket: l.Bucket, Key: path.Join(path.Dir(l.Key), name)}
	}
	return Location{Path: filepath.Join(filepath.Dir(l.Path), name)}
}
