// Package content holds the static copy of the portfolio page.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/redterminal/portfolio/internal/scrollspy"
)

//go:embed site.yaml
var defaultSite []byte

type Section struct {
	ID    scrollspy.Section `yaml:"id"`
	Label string            `yaml:"label"`
}

type Skill struct {
	Name        string `yaml:"name"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	Link        string   `yaml:"link"`
}

type Social struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
	URL  string `yaml:"url"`
}

// Site is everything rendered on the page apart from the form state.
type Site struct {
	Owner    string    `yaml:"owner"`
	Role     string    `yaml:"role"`
	Tagline  string    `yaml:"tagline"`
	Intro    string    `yaml:"intro"`
	Photo    string    `yaml:"photo"`
	Email    string    `yaml:"email"`
	Sections []Section `yaml:"sections"`
	About    []string  `yaml:"about"`
	Facts    []string  `yaml:"facts"`
	Skills   []Skill   `yaml:"skills"`
	Projects []Project `yaml:"projects"`
	Socials  []Social  `yaml:"socials"`
}

// Load returns the embedded site content.
func Load() (*Site, error) {
	return Parse(defaultSite)
}

// LoadFile reads site content from path.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML site document. The sections must match
// the scroll-spy order, since the nav highlight is derived from it.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if len(s.Sections) != len(scrollspy.Sections) {
		return nil, fmt.Errorf("content: expected %d sections, got %d", len(scrollspy.Sections), len(s.Sections))
	}
	for i, sec := range s.Sections {
		if sec.ID != scrollspy.Sections[i] {
			return nil, fmt.Errorf("content: section %d is %q, want %q", i, sec.ID, scrollspy.Sections[i])
		}
	}
	return &s, nil
}
