package config

// SecretStringValue replaces secrets in every textual form, exported for tests.
const SecretStringValue = "<secret>"

// SecretString holds credentials (delivery API token) which must never reach
// logs, dumps or debug reports.
type SecretString string

func (s SecretString) mask() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}

// String makes sure fmt and zap.Stringer see masked value.
func (s SecretString) String() string {
	return s.mask()
}

// Reveal returns actual secret for use in requests.
func (s SecretString) Reveal() string {
	return string(s)
}

func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte(`"` + s.mask() + `"`), nil
}

func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return s.mask(), nil
}
