package domain

// Profile is the per-user profile view stored on the users document.
// A profile may not exist until the user first saves it; absence renders as
// empty fields, not as an error.
type Profile struct {
	Name           string `bson:"name,omitempty" json:"name"`
	DateOfBirth    string `bson:"dateOfBirth,omitempty" json:"dateOfBirth"`
	Nationality    string `bson:"nationality,omitempty" json:"nationality"`
	PhotoURL       string `bson:"photoUrl,omitempty" json:"photoUrl"`
	PhotoObjectKey string `bson:"photoObjectKey,omitempty" json:"-"`
}

// Nationalities is the fixed set offered by the profile picker.
var Nationalities = []string{"Spain", "France", "Germany"}

// ValidNationality reports whether n is in the fixed set. The empty string is
// valid and means "not selected".
func ValidNationality(n string) bool {
	if n == "" {
		return true
	}
	for _, v := range Nationalities {
		if v == n {
			return true
		}
	}
	return false
}
