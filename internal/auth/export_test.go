package auth

// SwapPasswordCompare replaces the bcrypt comparison until restore is called.
func SwapPasswordCompare(fn func(hash, password []byte) error) (restore func()) {
	prev := comparePassword
	comparePassword = fn
	return func() { comparePassword = prev }
}
