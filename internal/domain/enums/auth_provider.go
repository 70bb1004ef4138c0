package enums

type AuthProvider string

const (
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderPhone  AuthProvider = "phone"
)
