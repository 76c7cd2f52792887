package watch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ItemType classifies a catalog item.
type ItemType string

const (
	TypeMovie ItemType = "movie"
	TypeSong  ItemType = "song"
	TypeMV    ItemType = "mv"
)

var ErrUnknownItem = errors.New("no such catalog item")

// Item is one piece of watchable content. Items carrying a Body (song
// lyrics, music video transcripts) can be opened for selection capture.
type Item struct {
	Type    ItemType `yaml:"type"`
	Title   string   `yaml:"title"`
	Desc    string   `yaml:"desc"`
	URL     string   `yaml:"url"`
	VideoID string   `yaml:"video_id"`
	Body    string   `yaml:"body"`
}

// HasBody reports whether the item can be opened for capture.
func (i Item) HasBody() bool {
	return strings.TrimSpace(i.Body) != ""
}

// Catalog is the ordered list of curated watch items.
type Catalog struct {
	items []Item
}

func builtinItems() []Item {
	return []Item{
		{Type: TypeMovie, Title: "The Social Network", Desc: "Learn English through this drama movie."},
		{Type: TypeMovie, Title: "Inception", Desc: "Explore complex ideas in English."},
		{Type: TypeSong, Title: "Shape of You", Desc: "Learn English through popular songs"},
		{Type: TypeSong, Title: "Let It Go", Desc: "Practice English with Disney songs."},
		{Type: TypeSong, Title: "See You Again", Desc: "Learn English with emotional lyrics."},
		{
			Type:    TypeMV,
			Title:   "BLACKPINK - How You Like That (MV)",
			Desc:    "Watch and learn English with this K-pop music video.",
			URL:     "https://www.youtube.com/watch?v=ioNng23DkIM",
			VideoID: "ioNng23DkIM",
			Body:    "How you like that?\nYou gon' like that\nHow you like that?",
		},
		{
			Type:    TypeMV,
			Title:   "Wiz Khalifa - See You Again (MV)",
			Desc:    "Watch and learn English with this emotional music video.",
			URL:     "https://www.youtube.com/watch?v=RgKAFK5djSk",
			VideoID: "RgKAFK5djSk",
			Body: "It's been a long day without you, my friend\n" +
				"And I'll tell you all about it when I see you again\n" +
				"We've come a long way from where we began\n" +
				"Oh, I'll tell you all about it when I see you again\n" +
				"When I see you again",
		},
	}
}

type catalogFile struct {
	Items []Item `yaml:"items"`
}

var DefaultCatalog = &Catalog{items: builtinItems()}

// InitCatalog loads the catalog used by the bot handlers.
func InitCatalog(filename string) error {
	catalog, err := LoadCatalog(filename)
	if err != nil {
		return err
	}
	DefaultCatalog = catalog
	return nil
}

// LoadCatalog returns the built-in items plus any items from the
// optional YAML catalog file. A missing file is not an error.
func LoadCatalog(filename string) (*Catalog, error) {
	catalog := &Catalog{items: builtinItems()}
	if filename == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, fmt.Errorf("failed to read watch catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse watch catalog: %w", err)
	}
	for _, item := range file.Items {
		if strings.TrimSpace(item.Title) == "" {
			continue
		}
		catalog.items = append(catalog.items, item)
	}
	return catalog, nil
}

// Items returns items of the given type; the empty type returns all.
func (c *Catalog) Items(itemType ItemType) []Item {
	if itemType == "" {
		return append([]Item(nil), c.items...)
	}
	filtered := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		if item.Type == itemType {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Item resolves a 1-based position within the full list.
func (c *Catalog) Item(position int) (Item, error) {
	if position < 1 || position > len(c.items) {
		return Item{}, ErrUnknownItem
	}
	return c.items[position-1], nil
}

func (c *Catalog) Len() int {
	return len(c.items)
}
