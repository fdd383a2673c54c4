package userservice

import (
	"golang.org/x/crypto/bcrypt"
)

func (p *Password) set(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), 12)
	if err != nil {
		return err
	}

	p.Plain = pwd
	p.hash = hash

	return nil
}

// compare reports whether pwd reproduces the stored digest. A mismatch and a
// malformed digest both come back false rather than as an error, so a
// corrupted row degrades to a failed login instead of a 500.
func (p *Password) compare(pwd string) bool {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(pwd)) == nil
}
