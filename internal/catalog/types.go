package catalog

import "strings"

// Station is one directory record. Only the fields the application uses
// are decoded.
type Station struct {
	ID          string `json:"stationuuid"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	StreamURL   string `json:"url_resolved"`
	Homepage    string `json:"homepage"`
	Favicon     string `json:"favicon"`
	TagList     string `json:"tags"`
	Country     string `json:"country"`
	CountryCode string `json:"countrycode"`
	Language    string `json:"language"`
	Votes       int    `json:"votes"`
	Codec       string `json:"codec"`
	Bitrate     int    `json:"bitrate"`
	HLS         int    `json:"hls"`
	LastCheckOK int    `json:"lastcheckok"`
	ClickCount  int    `json:"clickcount"`
}

// PlaybackURL returns the resolved stream URL, falling back to the
// registered one.
func (s *Station) PlaybackURL() string {
	if s.StreamURL != "" {
		return s.StreamURL
	}
	return s.URL
}

// Tags splits the comma-separated tag list.
func (s *Station) Tags() []string {
	if s.TagList == "" {
		return nil
	}
	parts := strings.Split(s.TagList, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// IsOnline reports whether the directory's last check succeeded.
func (s *Station) IsOnline() bool {
	return s.LastCheckOK == 1
}

// Tag is a tag with its station count.
type Tag struct {
	Name         string `json:"name"`
	StationCount int    `json:"stationcount"`
}

// Country is a country with its station count.
type Country struct {
	Name         string `json:"name"`
	Code         string `json:"iso_3166_1"`
	StationCount int    `json:"stationcount"`
}
