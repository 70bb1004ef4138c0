package dto

import "time"

type UpdateBasicInfoRequest struct {
	Gender    string `json:"gender"`
	Birthdate string `json:"birthdate"`
	State     string `json:"state"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
	Bio       string `json:"bio"`
}

type UpdatePreferencesRequest struct {
	Categories []string `json:"categories"`
	Languages  []string `json:"languages"`
}

type CreatePackageRequest struct {
	Platform    string  `json:"platform"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Revisions   int     `json:"revisions"`
	Price       float64 `json:"price"`
}

type CreatePortfolioRequest struct {
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	MediaURL  string `json:"media_url"`
	ObjectKey string `json:"object_key"`
}

type SubmitKYCRequest struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	DocumentKey    string `json:"document_key"`
	SelfieKey      string `json:"selfie_key"`
}

type PortfolioUploadURLRequest struct {
	FileName string `json:"file_name"`
}

type PortfolioUploadURLResponse struct {
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CreatorProfileResponse struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"user_id"`
	Gender     string   `json:"gender,omitempty"`
	Birthdate  string   `json:"birthdate,omitempty"`
	State      string   `json:"state,omitempty"`
	City       string   `json:"city,omitempty"`
	Pincode    string   `json:"pincode,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Categories []string `json:"categories"`
	Languages  []string `json:"languages"`
}

type PackageResponse struct {
	ID          int64   `json:"id"`
	Platform    string  `json:"platform"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	Revisions   int     `json:"revisions"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
}

type PortfolioItemResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	MediaURL  string `json:"media_url,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
	Status    string `json:"status"`
}

type KYCResponse struct {
	ID           int64     `json:"id"`
	DocumentType string    `json:"document_type"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type FullProfileResponse struct {
	Profile   CreatorProfileResponse  `json:"profile"`
	Packages  []PackageResponse       `json:"packages"`
	Portfolio []PortfolioItemResponse `json:"portfolio"`
	KYCStatus string                  `json:"kyc_status"`
}
