package models

// Category selects which kind of credential a record holds. Exactly one of
// PackageName (CategoryApp) or WebURL (CategoryWebsite) is semantically
// populated, chosen by this value.
type Category string

const (
	CategoryApp     Category = "App"
	CategoryWebsite Category = "Website"
)

// Ciphered is a string alias representing an encrypted field value:
// base64(IV || ciphertext). An empty Ciphered value means the field was
// empty in plaintext and was never encrypted.
type Ciphered string

// CredentialRecord is the decrypted, in-memory form of a vault entry.
// It only ever exists client-side; the remote store sees a WireRecord.
type CredentialRecord struct {
	ID           string
	Category     Category
	AppName      string
	PackageName  string
	Password     string
	Username     string
	WebURL       string
	Website      string
	WebsiteTitle string
}

// WireRecord is the partially encrypted representation persisted under
// users/{userID}/{recordID}. ID, Category and Website travel in the clear;
// every other field is a Ciphered blob.
//
// JSON keys match the historical document format and must not change:
// records encrypted by older builds are still read with these names.
type WireRecord struct {
	ID           string   `json:"id"`
	AppName      Ciphered `json:"appName"`
	Category     Category `json:"category"`
	PackageName  Ciphered `json:"packageName"`
	Password     Ciphered `json:"password"`
	Username     Ciphered `json:"username"`
	WebURL       Ciphered `json:"webUrl"`
	Website      string   `json:"website"`
	WebsiteTitle Ciphered `json:"websiteTitle"`
}
