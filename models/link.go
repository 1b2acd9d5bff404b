package models

import "gorant/pkg/bytespan"

// LinkType discriminates in-text links.
const (
	LinkTypeURL     = "url"
	LinkTypeMention = "mention"
)

// Link is an in-text link or mention inside a rant or comment. Start and
// End, when present, are UTF-8 byte offsets into the owning text as emitted
// by the platform.
type Link struct {
	Type     string     `json:"type"`
	URL      FlexString `json:"url"`
	ShortURL string     `json:"short_url,omitempty"`
	Title    string     `json:"title"`
	Start    *int       `json:"start,omitempty"`
	End      *int       `json:"end,omitempty"`

	// Range is derived relative to the owning text at decode time; the
	// server never sends it.
	Range *bytespan.Range `json:"-"`
}

// ResolveLinkRanges computes every link's code-point range against the
// owning text. Links whose span cannot be located keep a nil Range.
func ResolveLinkRanges(text string, links []Link) {
	for i := range links {
		if r, ok := bytespan.Resolve(text, links[i].Title, links[i].Start, links[i].End); ok {
			rr := r
			links[i].Range = &rr
		}
	}
}
