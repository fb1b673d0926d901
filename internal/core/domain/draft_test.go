package domain

import (
	"errors"
	"testing"
)

func validDraft() RegistrationDraft {
	return RegistrationDraft{
		Username:             "alex",
		Email:                "alex@example.com",
		Phone:                "+79990000000",
		Password:             "secret",
		PasswordConfirmation: "secret",
	}
}

func TestRegistrationDraft_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(d *RegistrationDraft)
		wantField string
		wantMsg   string
	}{
		{
			name:   "valid",
			mutate: func(d *RegistrationDraft) {},
		},
		{
			name:   "email optional",
			mutate: func(d *RegistrationDraft) { d.Email = "" },
		},
		{
			name: "password mismatch",
			mutate: func(d *RegistrationDraft) {
				d.Password = "a"
				d.PasswordConfirmation = "b"
			},
			wantField: "password_confirmation",
			wantMsg:   ReasonPasswordMismatch,
		},
		{
			name: "mismatch reported before missing phone",
			mutate: func(d *RegistrationDraft) {
				d.Password = "a"
				d.PasswordConfirmation = "b"
				d.Phone = ""
				d.Username = ""
			},
			wantField: "password_confirmation",
			wantMsg:   ReasonPasswordMismatch,
		},
		{
			name:      "blank phone",
			mutate:    func(d *RegistrationDraft) { d.Phone = "   " },
			wantField: "phone",
			wantMsg:   ReasonPhoneRequired,
		},
		{
			name:      "missing username",
			mutate:    func(d *RegistrationDraft) { d.Username = "" },
			wantField: "username",
			wantMsg:   ReasonUsernameRequired,
		},
		{
			name: "empty password",
			mutate: func(d *RegistrationDraft) {
				d.Password = ""
				d.PasswordConfirmation = ""
			},
			wantField: "password",
			wantMsg:   ReasonPasswordRequired,
		},
		{
			name:      "malformed email",
			mutate:    func(d *RegistrationDraft) { d.Email = "alex@" },
			wantField: "email",
			wantMsg:   ReasonEmailMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := d.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var de *DomainError
			if !errors.As(err, &de) {
				t.Fatalf("Validate() = %v, want DomainError", err)
			}
			if de.Category != CategoryValidation {
				t.Errorf("Category = %q, want %q", de.Category, CategoryValidation)
			}
			if de.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", de.Field, tt.wantField)
			}
			if de.Details != tt.wantMsg {
				t.Errorf("Details = %q, want %q", de.Details, tt.wantMsg)
			}
		})
	}
}

func TestRegistrationDraft_Normalized(t *testing.T) {
	d := RegistrationDraft{
		Username: "  alex ",
		Email:    " alex@example.com",
		Phone:    " +7 (999) 000-00-00 ",
		Password: " keep spaces ",
	}
	n := d.Normalized()

	if n.Username != "alex" {
		t.Errorf("Username = %q, want %q", n.Username, "alex")
	}
	if n.Email != "alex@example.com" {
		t.Errorf("Email = %q, want %q", n.Email, "alex@example.com")
	}
	if n.Phone != "+79990000000" {
		t.Errorf("Phone = %q, want %q", n.Phone, "+79990000000")
	}
	if n.Password != " keep spaces " {
		t.Errorf("Password = %q, want it untouched", n.Password)
	}
}

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name      string
		creds     Credentials
		wantField string
	}{
		{"valid", Credentials{Identifier: "alex", Password: "pw"}, ""},
		{"blank identifier", Credentials{Identifier: " ", Password: "pw"}, "identifier"},
		{"empty password", Credentials{Identifier: "alex"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var de *DomainError
			if !errors.As(err, &de) || de.Field != tt.wantField {
				t.Errorf("Validate() = %v, want validation error on %q", err, tt.wantField)
			}
		})
	}
}
