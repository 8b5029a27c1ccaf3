package vocab

import "fmt"

// Theme is a selectable topic. The core only needs ID; the other fields are
// for whatever shell renders the catalog.
type Theme struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

// Themes is the built-in catalog.
var Themes = []Theme{
	{ID: "animals", Name: "动物 (Animals)", Icon: "🐼", Color: "green"},
	{ID: "fruits", Name: "水果 (Fruits)", Icon: "🍎", Color: "red"},
	{ID: "family", Name: "家庭 (Family)", Icon: "👨‍👩‍👧", Color: "purple"},
	{ID: "colors", Name: "颜色 (Colors)", Icon: "🎨", Color: "yellow"},
	{ID: "nature", Name: "自然 (Nature)", Icon: "🌳", Color: "emerald"},
	{ID: "space", Name: "太空 (Space)", Icon: "🚀", Color: "indigo"},
}

// LookupTheme finds a theme by its ID
func LookupTheme(id string) (Theme, error) {
	for _, t := range Themes {
		if t.ID == id {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("unknown theme: %s", id)
}

// ThemeIDs returns the IDs of all catalog themes in catalog order
func ThemeIDs() []string {
	ids := make([]string, len(Themes))
	for i, t := range Themes {
		ids[i] = t.ID
	}
	return ids
}
