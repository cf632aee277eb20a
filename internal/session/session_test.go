package session

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/models"
	"github.com/julianstephens/onboard/internal/storage"
)

func TestLoginDemo(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemoryStore())

	u, err := m.Login(ctx, nil)
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if u.ID != constants.DemoUserID || u.Name != constants.DemoUserName {
		t.Errorf("Login(nil) = %+v", u)
	}
	if u.Token == "" {
		t.Error("demo login has no token")
	}

	cur, err := m.Current(ctx)
	if err != nil || cur == nil {
		t.Fatalf("Current() = %v, %v", cur, err)
	}
	if *cur != *u {
		t.Errorf("Current() = %+v, want %+v", cur, u)
	}

	again, _ := m.Login(ctx, nil)
	if again.Token == u.Token {
		t.Error("second demo login reused the token")
	}
}

func TestLoginNamed(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemoryStore())

	u, err := m.Login(ctx, &models.User{ID: " u-42 ", Name: "Ana"})
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if u.ID != "u-42" || u.Name != "Ana" || u.Token == "" {
		t.Errorf("Login() = %+v", u)
	}

	u, _ = m.Login(ctx, &models.User{Name: "Bo"})
	if u.ID != constants.DemoUserID || u.Name != "Bo" {
		t.Errorf("Login() without id = %+v", u)
	}
}

func TestLogoutAndRequire(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	m := NewManager(kv)

	if _, err := m.Require(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("Require() before login error = %v", err)
	}
	if _, err := m.Login(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Require(ctx); err != nil {
		t.Fatalf("Require() after login error = %v", err)
	}

	if err := kv.Set(ctx, constants.KeyConfirmations, "{}"); err != nil {
		t.Fatal(err)
	}
	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if _, err := m.Require(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Require() after logout error = %v", err)
	}
	if _, ok, _ := kv.Get(ctx, constants.KeyConfirmations); !ok {
		t.Error("Logout() removed confirmation state")
	}
}

func TestCurrent_Corrupt(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{oops"},
		{"no id", `{"name":"x"}`},
		{"wrong shape", `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemoryStore()
			if err := kv.Set(ctx, constants.KeyUser, tt.value); err != nil {
				t.Fatal(err)
			}
			m := NewManager(kv)

			u, err := m.Current(ctx)
			if err != nil || u != nil {
				t.Fatalf("Current() = %v, %v, want logged out", u, err)
			}
			if _, ok, _ := kv.Get(ctx, constants.KeyUser); ok {
				t.Error("corrupt session was not removed")
			}
		})
	}
}
