package enums

type KYCDocumentType string

const (
	KYCDocumentPAN      KYCDocumentType = "pan"
	KYCDocumentAadhaar  KYCDocumentType = "aadhaar"
	KYCDocumentPassport KYCDocumentType = "passport"
)
