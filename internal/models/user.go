package models

// User is the public projection of an identity. Nothing else about a user is ever sent to clients.
type User struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// EmailAddress is one address attached to an identity by the provider.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// Identity is a user record as returned by the identity directory, provider fields included.
type Identity struct {
	ID              string                 `json:"id"`
	Username        string                 `json:"username"`
	ProfileImageURL string                 `json:"profile_image_url"`
	ImageURL        string                 `json:"image_url"`
	FirstName       string                 `json:"first_name"`
	LastName        string                 `json:"last_name"`
	EmailAddresses  []EmailAddress         `json:"email_addresses"`
	PrivateMetadata map[string]interface{} `json:"private_metadata"`
	PublicMetadata  map[string]interface{} `json:"public_metadata"`
	LastSignInAt    int64                  `json:"last_sign_in_at"`
	CreatedAt       int64                  `json:"created_at"`
}

// Public strips provider-internal fields from the identity.
func (i Identity) Public() User {
	image := i.ProfileImageURL
	if image == "" {
		image = i.ImageURL
	}
	return User{
		ID:              i.ID,
		Username:        i.Username,
		ProfileImageURL: image,
	}
}
