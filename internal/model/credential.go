package model

// CredentialHeaders is the column layout of the credentials partition.
var CredentialHeaders = []string{"username", "password", "email", "cc_emails"}

// CredentialRecord is one supplier login row. The core only ever reads these;
// provisioning them is an operator concern.
type CredentialRecord struct {
	Username string // login name, matched after trimming
	Password string // plain value or bcrypt hash ($2… prefix)
	Email    string // confirmation recipient
	CCField  string // semicolon-delimited CC list, blanks allowed
}

// CredentialFromRow decodes a credentials row. Short rows are reported as not
// ok and skipped.
func CredentialFromRow(row []string) (CredentialRecord, bool) {
	if len(row) < 4 {
		return CredentialRecord{}, false
	}
	return CredentialRecord{
		Username: row[0],
		Password: row[1],
		Email:    row[2],
		CCField:  row[3],
	}, true
}
