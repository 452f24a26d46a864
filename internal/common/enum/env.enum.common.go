package enum

type EnvEnum string

const (
	LOCAL       EnvEnum = "local"
	DEVELOPMENT EnvEnum = "development"
	STAGING     EnvEnum = "staging"
	PRODUCTION  EnvEnum = "production"
	TEST        EnvEnum = "test"
)

func (e EnvEnum) ToString() string {
	if !e.IsValid() {
		return ""
	}
	return string(e)
}

func (e EnvEnum) IsValid() bool {
	switch e {
	case LOCAL, DEVELOPMENT, STAGING, PRODUCTION, TEST:
		return true
	}
	return false
}

// IsRelease reports whether the environment serves real customers; gin runs
// in release mode and Paystack keys are expected to be live.
func (e EnvEnum) IsRelease() bool {
	return e == STAGING || e == PRODUCTION
}
