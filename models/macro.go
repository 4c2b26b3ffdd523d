package models

// ConfiguredMacro is a macro declared through the environment.
// Value is the integer the declaration was set to; the Discord relay reads it as a channel ID.
type ConfiguredMacro struct {
	Name  string
	Value int64
}
