package models

// Profile is the single public profile record, stored as JSON under the
// "profile" key.
type Profile struct {
	Name          string `json:"name"`
	Bio           string `json:"bio"`
	AvatarURL     string `json:"avatarUrl"`
	BackgroundURL string `json:"backgroundUrl"`
}

// DefaultProfile is what visitors see before the admin saves anything.
func DefaultProfile() Profile {
	return Profile{Name: "Your Name"}
}
