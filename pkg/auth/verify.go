package auth

// VerifyComponents carries the issuer and key a downstream consumer uses to
// validate tokens issued by the front-end. The publish path never reads it.
type VerifyComponents struct {
	Issuer string
	Key    []byte
}

// NewVerifyComponents returns nil when neither value is set.
func NewVerifyComponents(issuer, key string) *VerifyComponents {
	if issuer == "" && key == "" {
		return nil
	}
	vc := &VerifyComponents{Issuer: issuer}
	if key != "" {
		vc.Key = []byte(key)
	}
	return vc
}

// Validate checks token with the stored key and issuer.
func (v *VerifyComponents) Validate(token string) (bool, error) {
	if v == nil {
		return false, ErrConfiguration
	}
	return ValidateSig(token, v.Key, v.Issuer)
}
