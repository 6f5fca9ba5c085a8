package tokens

import "fmt"

// Kind selects which workflow a token gates.
type Kind int

const (
	KindVerification Kind = iota + 1
	KindPasswordReset
)

func (k Kind) String() string {
	switch k {
	case KindVerification:
		return "verification"
	case KindPasswordReset:
		return "password_reset"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) Valid() bool {
	return k == KindVerification || k == KindPasswordReset
}

// Status is the outcome of Engine.Validate.
type Status int

const (
	StatusInvalid Status = iota
	StatusValid
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	case StatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}
