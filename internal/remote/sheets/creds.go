package sheets

import (
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// ClientOptions builds Google API options from configured credentials.
// credentials may be a file path or an inline JSON document. An empty value
// falls back to application default credentials.
func ClientOptions(credentials string) []option.ClientOption {
	opts := []option.ClientOption{
		option.WithScopes(gsheets.SpreadsheetsScope, drive.DriveMetadataReadonlyScope),
	}
	creds := strings.TrimSpace(credentials)
	if creds == "" {
		return opts
	}
	if strings.HasPrefix(creds, "{") {
		return append(opts, option.WithCredentialsJSON([]byte(creds)))
	}
	return append(opts, option.WithCredentialsFile(creds))
}
