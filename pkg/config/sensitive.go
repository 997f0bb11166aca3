package config

// SensitiveString is a string that must not leak into logs or serialized
// output. Its value is only reachable through an explicit conversion.
type SensitiveString string

const redacted = "[REDACTED]"

func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s SensitiveString) GoString() string {
	return s.String()
}

func (s SensitiveString) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Value returns the underlying secret.
func (s SensitiveString) Value() string {
	return string(s)
}
