package classifier

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NamePlaceholder is replaced with the persona name in every response.
const NamePlaceholder = "{name}"

// Rule fires when the query contains any of its keywords.
type Rule struct {
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

// Category is a named, ordered group of rules.
type Category struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

type Match struct {
	Category string
	Response string
}

// Classifier answers common questions from a fixed rule table. Categories are
// tried in order, rules within a category top to bottom, and the first rule
// with a keyword contained in the query wins. Matching is plain substring
// search with no word boundaries, so "age" also fires on "language".
type Classifier struct {
	categories []Category
}

type ruleFile struct {
	Categories []Category `yaml:"categories"`
}

// New validates the table and returns a classifier over a normalised copy of it:
// keywords are lower-cased and the name placeholder in responses is expanded.
func New(categories []Category, persona string) (*Classifier, error) {
	expand := strings.NewReplacer(NamePlaceholder, persona)
	table := make([]Category, 0, len(categories))
	for ci, category := range categories {
		if strings.TrimSpace(category.Name) == "" {
			return nil, fmt.Errorf("category %d has no name", ci)
		}
		rules := make([]Rule, 0, len(category.Rules))
		for ri, rule := range category.Rules {
			if strings.TrimSpace(rule.Response) == "" {
				return nil, fmt.Errorf("category %q rule %d has no response", category.Name, ri)
			}
			keywords := make([]string, 0, len(rule.Keywords))
			for _, kw := range rule.Keywords {
				if kw = strings.ToLower(kw); strings.TrimSpace(kw) != "" {
					keywords = append(keywords, kw)
				}
			}
			if len(keywords) == 0 {
				return nil, fmt.Errorf("category %q rule %d has no keywords", category.Name, ri)
			}
			rules = append(rules, Rule{Keywords: keywords, Response: expand.Replace(rule.Response)})
		}
		table = append(table, Category{Name: category.Name, Rules: rules})
	}
	return &Classifier{categories: table}, nil
}

// Classify returns the first matching rule's response. ok is false when nothing
// matched, which is the signal to fall through to retrieval.
func (c *Classifier) Classify(query string) (m Match, ok bool) {
	q := strings.ToLower(query)
	for _, category := range c.categories {
		for _, rule := range category.Rules {
			if containsAny(q, rule.Keywords) {
				return Match{Category: category.Name, Response: rule.Response}, true
			}
		}
	}
	return Match{}, false
}

// Categories returns the category names in evaluation order.
func (c *Classifier) Categories() []string {
	names := make([]string, len(c.categories))
	for i, category := range c.categories {
		names[i] = category.Name
	}
	return names
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// LoadRules reads a rule table from a YAML file.
func LoadRules(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules %s: %w", path, err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("rules file %s defines no categories", path)
	}
	return f.Categories, nil
}
