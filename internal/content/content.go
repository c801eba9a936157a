// Package content loads the portfolio's static data: hero copy, about and
// timeline, skills, projects, social links. It is plain data; nothing here
// renders anything.
package content

import (
	_ "embed"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

//go:embed default.toml
var defaultTOML string

// AllCategory is the pseudo-category that selects everything.
const AllCategory = "all"

// Project statuses.
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in-progress"
	StatusUpcoming   = "upcoming"
)

type Hero struct {
	Name    string   `toml:"name"`
	Title   string   `toml:"title"`
	Phrases []string `toml:"phrases"`
	Badges  []string `toml:"badges"`
}

type Stat struct {
	Label string `toml:"label"`
	Value string `toml:"value"`
}

type About struct {
	Bio      string `toml:"bio"`
	Closing  string `toml:"closing"`
	Location string `toml:"location"`
	Email    string `toml:"email"`
	Resume   string `toml:"resume"`
	Stats    []Stat `toml:"stats"`
}

type TimelineItem struct {
	Year        string `toml:"year"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

type Skill struct {
	Name        string `toml:"name"`
	Level       int    `toml:"level"`
	Category    string `toml:"category"`
	Description string `toml:"description"`
}

type Project struct {
	ID              string   `toml:"id"`
	Title           string   `toml:"title"`
	Description     string   `toml:"description"`
	LongDescription string   `toml:"long_description"`
	Image           string   `toml:"image"`
	Tags            []string `toml:"tags"`
	Category        string   `toml:"category"`
	Featured        bool     `toml:"featured"`
	Status          string   `toml:"status"`
	Year            string   `toml:"year"`
	Likes           int      `toml:"likes"`
	Views           int      `toml:"views"`
	Tech            []string `toml:"tech"`
	DemoURL         string   `toml:"demo_url"`
	GithubURL       string   `toml:"github_url"`
}

// Category is a filter tab. Count is filled in by the query helpers.
type Category struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Count int    `toml:"-"`
}

type Link struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

type Chat struct {
	Greeting string `toml:"greeting"`
}

// Content is the whole document.
type Content struct {
	Hero                Hero           `toml:"hero"`
	About               About          `toml:"about"`
	Timeline            []TimelineItem `toml:"timeline"`
	SkillCategoryList   []Category     `toml:"skill_categories"`
	Skills              []Skill        `toml:"skills"`
	ProjectCategoryList []Category     `toml:"project_categories"`
	Projects            []Project      `toml:"projects"`
	Socials             []Link         `toml:"socials"`
	QuickInfo           []Stat         `toml:"quick_info"`
	Chat                Chat           `toml:"chat"`
}

// Default returns the embedded content.
func Default() *Content {
	c, err := Parse(defaultTOML)
	if err != nil {
		panic(errors.Wrap(err, "embedded content is invalid"))
	}
	return c
}

// Parse decodes and validates a TOML document.
func Parse(doc string) (*Content, error) {
	var c Content
	md, err := toml.Decode(doc, &c)
	if err != nil {
		return nil, errors.Wrap(err, "decode content")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Newf("unknown content keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a content file. An empty path returns the embedded default.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read content file %s", path)
	}
	c, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "content file %s", path)
	}
	return c, nil
}

// Validate checks the invariants the pages rely on.
func (c *Content) Validate() error {
	if len(c.Hero.Phrases) == 0 {
		return errors.WithHint(errors.New("hero needs at least one phrase"),
			"add phrases = [\"...\"] under [hero]")
	}
	for _, s := range c.Skills {
		if s.Level < 0 || s.Level > 100 {
			return errors.Newf("skill %q: level %d outside 0..100", s.Name, s.Level)
		}
	}
	ids := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		switch p.Status {
		case StatusCompleted, StatusInProgress, StatusUpcoming:
		default:
			return errors.Newf("project %q: unknown status %q", p.ID, p.Status)
		}
		if ids[p.ID] {
			return errors.Newf("duplicate project id %q", p.ID)
		}
		ids[p.ID] = true
	}
	return nil
}

// SkillCategories returns the skill filter tabs, "all" first, with counts.
func (c *Content) SkillCategories() []Category {
	out := []Category{{ID: AllCategory, Name: "All Skills", Count: len(c.Skills)}}
	for _, cat := range c.SkillCategoryList {
		n := 0
		for _, s := range c.Skills {
			if s.Category == cat.ID {
				n++
			}
		}
		out = append(out, Category{ID: cat.ID, Name: cat.Name, Count: n})
	}
	return out
}

// SkillsIn returns the skills in category. "all" and "" return every skill.
func (c *Content) SkillsIn(category string) []Skill {
	if category == "" || category == AllCategory {
		return append([]Skill(nil), c.Skills...)
	}
	var out []Skill
	for _, s := range c.Skills {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// ProjectCategories returns the project filter tabs, "all" first, with counts.
func (c *Content) ProjectCategories() []Category {
	out := []Category{{ID: AllCategory, Name: "All Projects", Count: len(c.Projects)}}
	for _, cat := range c.ProjectCategoryList {
		n := 0
		for _, p := range c.Projects {
			if p.Category == cat.ID {
				n++
			}
		}
		out = append(out, Category{ID: cat.ID, Name: cat.Name, Count: n})
	}
	return out
}

// ProjectsIn returns the projects in category. "all" and "" return every project.
func (c *Content) ProjectsIn(category string) []Project {
	if category == "" || category == AllCategory {
		return append([]Project(nil), c.Projects...)
	}
	var out []Project
	for _, p := range c.Projects {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// FeaturedProjects returns the projects flagged as featured.
func (c *Content) FeaturedProjects() []Project {
	var out []Project
	for _, p := range c.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Social returns the link with the given name, ignoring case.
func (c *Content) Social(name string) (Link, bool) {
	for _, l := range c.Socials {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Link{}, false
}
