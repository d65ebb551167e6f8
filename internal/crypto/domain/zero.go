package domain

// Zero overwrites a byte slice with zeros so key material does not linger in
// memory after use.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
