package confex

import "confex/internal/validator"

// Entry binds a schema key to its validator and the environment
// variable it is read from.
type Entry struct {
	Key    string          // Result key (e.g., "PORT", "db.url")
	EnvVar string          // Variable name before any prefix is applied
	Field  validator.Field // Validator for the value
}

// Field declares key, read from the environment variable of the same name.
func Field(key string, f validator.Field) Entry {
	return Entry{Key: key, EnvVar: key, Field: f}
}

// Env returns a copy of e that reads from the named variable instead.
func (e Entry) Env(name string) Entry {
	e.EnvVar = name
	return e
}

// mergeEntries appends entries to dst. A key that is already present has
// its entry replaced in place, keeping the original position.
func mergeEntries(dst []Entry, entries ...Entry) []Entry {
	for _, e := range entries {
		if e.EnvVar == "" {
			e.EnvVar = e.Key
		}
		replaced := false
		for i := range dst {
			if dst[i].Key == e.Key {
				dst[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, e)
		}
	}
	return dst
}
