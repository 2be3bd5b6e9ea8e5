package search

import "github.com/vamshidharreddye/llmlocalai/internal/index"

// Match reasons recorded on hits.
const (
	ReasonName   = "name"
	ReasonFolder = "folder"
	ReasonVector = "vector"
	ReasonType   = "type"
)

// Hit is a FileEntry augmented with match provenance and, for
// vector-sourced hits, a content excerpt.
type Hit struct {
	index.FileEntry
	Reason       string `json:"reason"`
	ReasonDetail string `json:"reason_detail"`
	Snippet      string `json:"snippet,omitempty"`
}
