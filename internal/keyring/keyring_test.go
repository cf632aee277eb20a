package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetRemoteDSN(t *testing.T) {
	gokeyring.MockInit()

	dsn := "postgres://trainee@localhost:5432/onboard?sslmode=disable"
	if err := SetRemoteDSN(dsn); err != nil {
		t.Fatalf("SetRemoteDSN() failed: %v", err)
	}

	got, err := GetRemoteDSN()
	if err != nil {
		t.Fatalf("GetRemoteDSN() failed: %v", err)
	}
	if got != dsn {
		t.Errorf("GetRemoteDSN() = %q, want %q", got, dsn)
	}
}

func TestSetRemoteDSNEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetRemoteDSN(""); err == nil {
		t.Error(`SetRemoteDSN("") should return an error`)
	}
}

func TestGetRemoteDSNNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteRemoteDSN()

	if _, err := GetRemoteDSN(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRemoteDSN() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteRemoteDSN(t *testing.T) {
	gokeyring.MockInit()

	if err := SetRemoteDSN("host=localhost dbname=onboard"); err != nil {
		t.Fatalf("SetRemoteDSN() failed: %v", err)
	}
	if err := DeleteRemoteDSN(); err != nil {
		t.Fatalf("DeleteRemoteDSN() failed: %v", err)
	}
	if err := DeleteRemoteDSN(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteRemoteDSN() error = %v, want %v", err, ErrNotFound)
	}
}

func TestUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus unavailable"))
	defer gokeyring.MockInit()

	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
	if _, err := GetRemoteDSN(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetRemoteDSN() error = %v, want %v", err, ErrKeyringUnavailable)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false with the mock keyring")
	}
}
