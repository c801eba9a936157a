// Package responder picks canned chat replies by keyword.
//
// Input is lower-cased and checked against each category's triggers with
// plain substring containment, so "this" matches the "hi" trigger. The first
// matching category wins; when nothing matches the fallback category answers.
// The reply within a category is drawn uniformly from its candidates.
package responder

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Category groups triggers with the replies they select.
type Category struct {
	Name     string
	Triggers []string
	Replies  []string
}

// Reply is a selected reply together with the category that produced it.
type Reply struct {
	Category string `json:"category"`
	Text     string `json:"reply"`
}

// Responder maps free text to canned replies. It is safe for concurrent use.
type Responder struct {
	categories []Category
	fallback   Category

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Responder.
type Option func(*Responder)

// WithSource sets the random source used to pick replies.
func WithSource(src rand.Source) Option {
	return func(r *Responder) { r.rng = rand.New(src) }
}

// WithSeed makes reply selection reproducible.
func WithSeed(seed uint64) Option {
	return WithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WithCategories replaces the reply tables.
func WithCategories(categories []Category, fallback Category) Option {
	return func(r *Responder) {
		r.categories = categories
		r.fallback = fallback
	}
}

// New builds a Responder with the default tables and a randomly seeded source.
func New(opts ...Option) *Responder {
	r := &Responder{
		categories: DefaultCategories(),
		fallback:   DefaultFallback(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r.categories = normalize(r.categories)
	r.fallback = normalize([]Category{r.fallback})[0]
	if len(r.fallback.Replies) == 0 {
		r.fallback = DefaultFallback()
	}
	return r
}

// Validate reports tables that could produce an empty reply.
func Validate(categories []Category, fallback Category) error {
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.Name == "" {
			return errors.New("responder: category without a name")
		}
		if seen[c.Name] {
			return errors.Newf("responder: duplicate category %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Triggers) == 0 {
			return errors.Newf("responder: category %q has no triggers", c.Name)
		}
		if err := checkReplies(c); err != nil {
			return err
		}
	}
	return checkReplies(fallback)
}

func checkReplies(c Category) error {
	if len(c.Replies) == 0 {
		return errors.Newf("responder: category %q has no replies", c.Name)
	}
	for _, reply := range c.Replies {
		if strings.TrimSpace(reply) == "" {
			return errors.Newf("responder: category %q has an empty reply", c.Name)
		}
	}
	return nil
}

// normalize deep-copies the tables and lower-cases triggers so the caller's
// slices can never alias the responder's state.
func normalize(categories []Category) []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		triggers := make([]string, 0, len(c.Triggers))
		for _, t := range c.Triggers {
			if t = strings.ToLower(t); t != "" {
				triggers = append(triggers, t)
			}
		}
		out[i] = Category{
			Name:     c.Name,
			Triggers: triggers,
			Replies:  append([]string(nil), c.Replies...),
		}
	}
	return out
}

// Respond returns a reply for input. It never returns an empty string as
// long as the tables passed Validate.
func (r *Responder) Respond(input string) string {
	return r.Reply(input).Text
}

// Reply is Respond plus the name of the category that answered.
func (r *Responder) Reply(input string) Reply {
	c := r.match(input)
	return Reply{Category: c.Name, Text: r.pick(c.Replies)}
}

// Classify returns the name of the category input falls into.
func (r *Responder) Classify(input string) string {
	return r.match(input).Name
}

// Categories returns a copy of the ordered tables followed by the fallback.
func (r *Responder) Categories() []Category {
	return normalize(append(append([]Category(nil), r.categories...), r.fallback))
}

func (r *Responder) match(input string) *Category {
	lower := strings.ToLower(input)
	for i := range r.categories {
		for _, trigger := range r.categories[i].Triggers {
			if strings.Contains(lower, trigger) {
				return &r.categories[i]
			}
		}
	}
	return &r.fallback
}

func (r *Responder) pick(replies []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return replies[r.rng.IntN(len(replies))]
}
