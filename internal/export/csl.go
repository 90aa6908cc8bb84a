// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form, readable by Pandoc
// and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a CSL date built from date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

var datePattern = regexp.MustCompile(`^(\d{4})(?:-(\d{1,2}))?(?:-(\d{1,2}))?`)

// CSL writes papers as a CSL-YAML list.
func CSL(w io.Writer, papers []types.Paper) error {
	items := make([]CSLItem, len(papers))
	for i, p := range papers {
		items[i] = toCSLItem(p, i)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("marshaling CSL: %w", err)
	}
	return enc.Close()
}

func toCSLItem(p types.Paper, index int) CSLItem {
	item := CSLItem{
		ID:             p.Citekey,
		Type:           "article",
		Title:          p.Title,
		Abstract:       p.Abstract,
		ContainerTitle: p.Venue,
		Issued:         parseIssued(p.PublicationDate),
		URL:            p.URL,
		Keyword:        strings.Join(p.Tags, ", "),
	}
	if item.ID == "" {
		item.ID = "paper" + strconv.Itoa(index+1)
	}
	if p.Venue != "" && !strings.EqualFold(p.Venue, "arxiv") {
		item.Type = "article-journal"
	}
	for _, a := range p.Authors {
		if name := parseAuthorName(a); name != (CSLName{}) {
			item.Author = append(item.Author, name)
		}
	}
	return item
}

// parseIssued turns "2017", "2017-06" or "2017-06-12" into date-parts.
func parseIssued(date string) *CSLDate {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(date))
	if m == nil {
		return nil
	}
	var parts []int
	for _, s := range m[1:] {
		if s == "" {
			break
		}
		n, _ := strconv.Atoi(s)
		parts = append(parts, n)
	}
	return &CSLDate{DateParts: [][]int{parts}}
}

// parseAuthorName splits a full name on its last space into given and
// family parts. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  strings.TrimSpace(name[:idx]),
		Family: name[idx+1:],
	}
}
