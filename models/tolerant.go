package models

import "encoding/json"

// tryUnmarshal decodes raw into dst and reports success. A missing key, a
// type mismatch or a malformed nested value all resolve to false so the
// parent entity's decode can carry on with the field absent.
func tryUnmarshal(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// AttachedImage is an image attached to a rant or comment. The platform
// serves the field as an object when present and as an empty string when
// not.
type AttachedImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func decodeAttachedImage(raw json.RawMessage) *AttachedImage {
	var img AttachedImage
	if tryUnmarshal(raw, &img) && img.URL != "" {
		return &img
	}
	return nil
}

func decodeLinks(raw json.RawMessage, text string) []Link {
	var links []Link
	if !tryUnmarshal(raw, &links) {
		return nil
	}
	ResolveLinkRanges(text, links)
	return links
}

// Collab is the collaboration metadata attached to collab-type rants.
type Collab struct {
	TypeID      int
	Type        string
	Description string
	TechStack   string
	TeamSize    string
	URL         string
}

// collabWire carries the raw c_* fields; every one of them is tolerant.
type collabWire struct {
	Type        json.RawMessage `json:"c_type"`
	TypeLong    json.RawMessage `json:"c_type_long"`
	Description json.RawMessage `json:"c_description"`
	TechStack   json.RawMessage `json:"c_tech_stack"`
	TeamSize    json.RawMessage `json:"c_team_size"`
	URL         json.RawMessage `json:"c_url"`
}

func (w collabWire) decode() *Collab {
	var typeID int
	if !tryUnmarshal(w.Type, &typeID) || typeID == 0 {
		return nil
	}
	c := &Collab{TypeID: typeID}
	// c_type_long and c_team_size sometimes arrive as the -1 sentinel
	// integer instead of text.
	var fs FlexString
	if tryUnmarshal(w.TypeLong, &fs) {
		c.Type = fs.String()
	}
	if tryUnmarshal(w.TeamSize, &fs) {
		c.TeamSize = fs.String()
	}
	var s string
	if tryUnmarshal(w.Description, &s) {
		c.Description = s
	}
	if tryUnmarshal(w.TechStack, &s) {
		c.TechStack = s
	}
	if tryUnmarshal(w.URL, &s) {
		c.URL = s
	}
	return c
}

// WeeklyInfo is the weekly-rant metadata attached to weekly-topic rants.
type WeeklyInfo struct {
	Week  int    `json:"week"`
	Topic string `json:"topic"`
	Date  string `json:"date"`
}

func decodeWeekly(raw json.RawMessage) *WeeklyInfo {
	var w WeeklyInfo
	if tryUnmarshal(raw, &w) && w.Week != 0 {
		return &w
	}
	return nil
}
