package domain

// Profile is a named overlay of env-file values. Profiles live under
// the stack directory's profiles/ subdirectory as <name>.env files and
// override the base set for keys present in both.
type Profile struct {
	// Name is the profile name, without the .env suffix.
	Name string

	// Path is the absolute path of the profile file.
	Path string

	// Values are the raw key/value pairs the profile sets.
	Values map[string]string
}
