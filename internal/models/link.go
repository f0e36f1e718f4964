package models

// Link is one entry in the public link list. Each link lives under
// "link:<id>"; display order is the "links:order" list of ids.
type Link struct {
	ID    string `json:"id"`
	Icon  string `json:"icon"`
	Title string `json:"title"`
	URL   string `json:"url"`
}
