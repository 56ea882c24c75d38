package jwt

import (
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	j, err := New("test-signature-key")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	expires := time.Now().Add(time.Hour).Unix()
	token, err := j.SignToken(&User{ID: 42, SessionID: "sid-1", Expires: expires})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	user, err := j.ParseUser(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if user.ID != 42 || user.SessionID != "sid-1" || user.Expires != expires {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestParseRejectsForeignKey(t *testing.T) {
	signer, _ := New("key-a")
	parser, _ := New("key-b")

	token, err := signer.SignToken(&User{ID: 1, SessionID: "sid", Expires: time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := parser.ParseUser(token); err == nil {
		t.Fatal("token signed with another key was accepted")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	j, _ := New("key")
	token, err := j.SignToken(&User{ID: 1, SessionID: "sid", Expires: time.Now().Add(-time.Minute).Unix()})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := j.ParseUser(token); err == nil {
		t.Fatal("expired token was accepted")
	}
}

func TestParseRejectsMissingSession(t *testing.T) {
	j, _ := New("key")
	token, err := j.SignToken(&User{ID: 1, Expires: time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := j.ParseUser(token); err == nil {
		t.Fatal("token without session id was accepted")
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("empty key was accepted")
	}
	j, _ := New("key")
	if _, err := j.ParseUser(""); err == nil {
		t.Fatal("empty token was accepted")
	}
}
