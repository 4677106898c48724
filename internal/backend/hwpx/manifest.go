// Package hwpx opens HWPX (OWPML) documents as tree backends.
package hwpx

import (
	"encoding/xml"
	"path"
	"strings"
)

// Manifest represents the OPF package manifest (content.hpf).
type Manifest struct {
	XMLName xml.Name       `xml:"package"`
	Items   []ManifestItem `xml:"manifest>item"`
	Spine   []SpineItem    `xml:"spine>itemref"`
}

// ManifestItem represents a single item in the manifest.
type ManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// SpineItem represents a spine reference for reading order.
type SpineItem struct {
	IDRef string `xml:"idref,attr"`
}

// ParseManifest parses OPF-format manifest XML data.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := xml.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// SectionHrefs returns section hrefs in spine order. Hrefs are usually
// relative to the package root.
func (m *Manifest) SectionHrefs() []string {
	items := make(map[string]string)
	for _, item := range m.Items {
		items[item.ID] = item.Href
	}

	var hrefs []string
	for _, ref := range m.Spine {
		if href, ok := items[ref.IDRef]; ok && isSection(href) {
			hrefs = append(hrefs, href)
		}
	}
	// spine이 비어 있으면 manifest 순서를 따른다
	if len(hrefs) == 0 {
		for _, item := range m.Items {
			if isSection(item.Href) {
				hrefs = append(hrefs, item.Href)
			}
		}
	}
	return hrefs
}

func isSection(href string) bool {
	base := strings.ToLower(path.Base(href))
	return strings.HasPrefix(base, "section") && strings.HasSuffix(base, ".xml")
}
