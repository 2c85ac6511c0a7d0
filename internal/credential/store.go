// Package credential authenticates suppliers against the read-only
// credentials partition of the ledger. The core never writes here;
// provisioning logins is an operator task.
package credential

import (
	"context"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ljbyon/almacen-v3-g/internal/ledger"
	"github.com/ljbyon/almacen-v3-g/internal/model"
)

// Identity is what a successful login yields: the supplier's confirmation
// recipient and CC list alongside the matched username.
type Identity struct {
	Username string
	Email    string
	CC       []string
}

// Store looks suppliers up in the credentials partition.
type Store struct {
	ledger ledger.Store
}

// NewStore returns a credential store reading from the given ledger.
func NewStore(l ledger.Store) *Store {
	return &Store{ledger: l}
}

// Authenticate checks a username/password pair against the current snapshot
// of the credentials partition. Both sides are trimmed before comparison.
// Stored passwords carrying a bcrypt prefix are compared with bcrypt; plain
// values are compared exactly.
//
// Any lookup failure — unreachable store, missing partition — maps to
// ok=false. Callers get no detail beyond that: internal state and credentials
// must never leak toward the UI. Repeated calls with unchanged store state
// and identical inputs return identical results.
func (s *Store) Authenticate(ctx context.Context, username, password string) (Identity, bool) {
	rows, err := s.ledger.ReadAll(ctx, model.CredentialPartition)
	if err != nil {
		log.Printf("credential: snapshot load failed: %v", err)
		return Identity{}, false
	}
	user := strings.TrimSpace(username)
	pass := strings.TrimSpace(password)
	for _, row := range rows {
		rec, ok := model.CredentialFromRow(row)
		if !ok {
			continue
		}
		if strings.TrimSpace(rec.Username) != user {
			continue
		}
		if !passwordMatches(strings.TrimSpace(rec.Password), pass) {
			continue
		}
		return Identity{
			Username: user,
			Email:    strings.TrimSpace(rec.Email),
			CC:       SplitCC(rec.CCField),
		}, true
	}
	return Identity{}, false
}

// passwordMatches compares a stored value with the submitted password. Bcrypt
// hashes are recognized by their "$2" prefix; anything else is an exact
// string match.
func passwordMatches(stored, submitted string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil
	}
	return stored == submitted
}

// SplitCC parses a semicolon-delimited CC field, trimming entries and
// discarding blanks.
func SplitCC(field string) []string {
	parts := strings.Split(field, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
