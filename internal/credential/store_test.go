package credential

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// fakeLedger serves a fixed credentials snapshot.
type fakeLedger struct {
	rows [][]string
	err  error
}

func (f *fakeLedger) ReadAll(context.Context, string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeLedger) Append(context.Context, string, []string) error {
	return errors.New("credentials partition is read-only")
}

func (f *fakeLedger) EnsurePartition(context.Context, string, []string) error { return nil }

func snapshot() *fakeLedger {
	return &fakeLedger{rows: [][]string{
		{"acme", "hunter2", "ops@acme.test", "a@acme.test; b@acme.test;;"},
		{" bravo ", " secret ", "dock@bravo.test", ""},
		{"short-row"},
	}}
}

func TestAuthenticateMatchesAfterTrimming(t *testing.T) {
	s := NewStore(snapshot())
	id, ok := s.Authenticate(context.Background(), "  bravo ", "secret")
	if !ok {
		t.Fatal("expected trimmed credentials to match")
	}
	if id.Username != "bravo" || id.Email != "dock@bravo.test" {
		t.Errorf("identity = %+v", id)
	}
	if len(id.CC) != 0 {
		t.Errorf("cc = %v, want empty", id.CC)
	}
}

func TestAuthenticateParsesCCList(t *testing.T) {
	s := NewStore(snapshot())
	id, ok := s.Authenticate(context.Background(), "acme", "hunter2")
	if !ok {
		t.Fatal("expected match")
	}
	want := []string{"a@acme.test", "b@acme.test"}
	if len(id.CC) != len(want) {
		t.Fatalf("cc = %v, want %v", id.CC, want)
	}
	for i := range want {
		if id.CC[i] != want[i] {
			t.Fatalf("cc = %v, want %v", id.CC, want)
		}
	}
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	s := NewStore(snapshot())
	if _, ok := s.Authenticate(context.Background(), "acme", "wrong"); ok {
		t.Fatal("wrong password accepted")
	}
	if _, ok := s.Authenticate(context.Background(), "nobody", "hunter2"); ok {
		t.Fatal("unknown user accepted")
	}
}

func TestAuthenticateIsIdempotent(t *testing.T) {
	s := NewStore(snapshot())
	first, ok1 := s.Authenticate(context.Background(), "acme", "hunter2")
	second, ok2 := s.Authenticate(context.Background(), "acme", "hunter2")
	if ok1 != ok2 {
		t.Fatalf("ok flapped: %v then %v", ok1, ok2)
	}
	if first.Username != second.Username || first.Email != second.Email || len(first.CC) != len(second.CC) {
		t.Fatalf("identity flapped: %+v then %+v", first, second)
	}
}

func TestAuthenticateMapsLookupErrorToGenericFailure(t *testing.T) {
	s := NewStore(&fakeLedger{err: errors.New("partition gone")})
	if _, ok := s.Authenticate(context.Background(), "acme", "hunter2"); ok {
		t.Fatal("unreachable store must authenticate nobody")
	}
}

func TestAuthenticateBcryptRows(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	s := NewStore(&fakeLedger{rows: [][]string{
		{"carol", string(hash), "carol@test", ""},
	}})
	if _, ok := s.Authenticate(context.Background(), "carol", "s3cret"); !ok {
		t.Fatal("bcrypt hash did not match its password")
	}
	if _, ok := s.Authenticate(context.Background(), "carol", "other"); ok {
		t.Fatal("bcrypt hash matched the wrong password")
	}
}

func TestSplitCC(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"a@x; b@x", 2},
		{"a@x;;; ", 1},
		{"", 0},
		{";", 0},
	}
	for _, tc := range cases {
		if got := SplitCC(tc.in); len(got) != tc.want {
			t.Errorf("SplitCC(%q) = %v, want %d entries", tc.in, got, tc.want)
		}
	}
}
