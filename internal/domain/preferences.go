package domain

// PreferenceKey names a value in the preference store
type PreferenceKey string

const (
	PrefUserName          PreferenceKey = "user_name"
	PrefProfilePicture    PreferenceKey = "profile_picture_uri"
	PrefProfileBackground PreferenceKey = "profile_background_uri"
)

// String returns the raw key
func (k PreferenceKey) String() string {
	return string(k)
}
