package enums

type Gender string

const (
	GenderFemale    Gender = "female"
	GenderMale      Gender = "male"
	GenderNonBinary Gender = "nonbinary"
)

// GenderEveryone is the looking_for wildcard, not a gender value.
const GenderEveryone = "everyone"
