package responder

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repliesOf(t *testing.T, name string) []string {
	t.Helper()
	for _, c := range append(DefaultCategories(), DefaultFallback()) {
		if c.Name == name {
			return c.Replies
		}
	}
	t.Fatalf("unknown category %q", name)
	return nil
}

func TestGreetingTriggersAnyCaseAnyPosition(t *testing.T) {
	r := New(WithSeed(1))
	greetings := repliesOf(t, CategoryGreeting)

	for _, input := range []string{"hello", "HELLO there", "well, Hi!", "oh hey", "sHeY"} {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, CategoryGreeting, r.Classify(input))
			assert.Contains(t, greetings, r.Respond(input))
		})
	}
}

func TestSubstringMatchingInsideWords(t *testing.T) {
	r := New(WithSeed(1))

	// "this" contains "hi"; greeting wins before anything else is checked.
	assert.Equal(t, CategoryGreeting, r.Classify("what is this about"))
	// "framework" contains "work".
	assert.Equal(t, CategoryProject, r.Classify("nice framework"))
	// "said" contains "ai".
	assert.Equal(t, CategorySkills, r.Classify("you said"))
}

func TestCategoryOrder(t *testing.T) {
	r := New(WithSeed(7))

	cases := []struct {
		input string
		want  string
	}{
		{"hi, tell me about your project", CategoryGreeting},
		{"Can we collaborate on a project?", CategoryProject},
		{"Can we collaborate?", CategoryCollaboration},
		{"are you open to an opportunity", CategoryCollaboration},
		{"what skills do you have", CategorySkills},
		{"React or Vue?", CategorySkills},
		{"tell me about your journey", CategoryExperience},
		{"let's discuss", CategoryContact},
		{"Can we meet?", CategoryContact},
		{"lorem ipsum", CategoryDefault},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got := r.Reply(tc.input)
			assert.Equal(t, tc.want, got.Category)
			assert.Contains(t, repliesOf(t, tc.want), got.Text)
		})
	}
}

func TestGreetingBeatsProject(t *testing.T) {
	r := New()
	greetings := repliesOf(t, CategoryGreeting)
	for i := 0; i < 50; i++ {
		assert.Contains(t, greetings, r.Respond("hi, tell me about your project"))
	}
}

func TestEmptyAndNonsenseFallToDefault(t *testing.T) {
	r := New()
	defaults := repliesOf(t, CategoryDefault)

	for _, input := range []string{"", "   ", "zzz qqq", "12345"} {
		got := r.Respond(input)
		assert.NotEmpty(t, got)
		assert.Contains(t, defaults, got)
	}
}

func TestSeededSelectionIsDeterministic(t *testing.T) {
	a := New(WithSeed(42))
	b := New(WithSeed(42))

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Respond("hello"), b.Respond("hello"))
	}
}

func TestSelectionCoversAllCandidates(t *testing.T) {
	r := New(WithSource(rand.NewPCG(3, 4)))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[r.Respond("zzz qqq")] = true
	}
	assert.Len(t, seen, len(repliesOf(t, CategoryDefault)))
}

func TestTablesAreCopied(t *testing.T) {
	cats := []Category{{Name: "x", Triggers: []string{"FOO"}, Replies: []string{"one"}}}
	fallback := Category{Name: "fb", Replies: []string{"fallback"}}
	r := New(WithCategories(cats, fallback), WithSeed(1))

	cats[0].Replies[0] = "mutated"
	cats[0].Triggers[0] = "bar"

	assert.Equal(t, "one", r.Respond("foo"))
	assert.Equal(t, "fallback", r.Respond("bar"))

	listed := r.Categories()
	require.Len(t, listed, 2)
	listed[0].Replies[0] = "mutated again"
	assert.Equal(t, "one", r.Respond("foo"))
}

func TestNewReplacesEmptyFallback(t *testing.T) {
	r := New(WithCategories(nil, Category{Name: "empty"}))
	assert.Contains(t, repliesOf(t, CategoryDefault), r.Respond("anything"))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(DefaultCategories(), DefaultFallback()))

	assert.Error(t, Validate([]Category{{Name: "", Triggers: []string{"a"}, Replies: []string{"b"}}}, DefaultFallback()))
	assert.Error(t, Validate([]Category{{Name: "a", Replies: []string{"b"}}}, DefaultFallback()))
	assert.Error(t, Validate([]Category{{Name: "a", Triggers: []string{"a"}}}, DefaultFallback()))
	assert.Error(t, Validate([]Category{{Name: "a", Triggers: []string{"a"}, Replies: []string{" "}}}, DefaultFallback()))
	assert.Error(t, Validate(DefaultCategories(), Category{Name: "fb"}))

	dup := append(DefaultCategories(), DefaultCategories()[0])
	assert.Error(t, Validate(dup, DefaultFallback()))
}

func TestConcurrentRespond(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if strings.TrimSpace(r.Respond("hey")) == "" {
					t.Error("empty reply")
				}
			}
		}()
	}
	wg.Wait()
}
