package validation

import (
	"testing"
)

func TestGetStartedForm_Validate(t *testing.T) {
	valid := GetStartedForm{
		Name:         "Asha",
		Mobile:       "+91 98765-43210",
		Email:        "asha@example.com",
		Requirements: "A landing page",
		PlanID:       "growth",
	}

	tests := []struct {
		name       string
		mutate     func(f *GetStartedForm)
		wantFields []string
	}{
		{name: "valid", mutate: func(f *GetStartedForm) {}},
		{name: "missing name", mutate: func(f *GetStartedForm) { f.Name = "   " }, wantFields: []string{"name"}},
		{name: "bad email", mutate: func(f *GetStartedForm) { f.Email = "asha@example" }, wantFields: []string{"email"}},
		{name: "short phone", mutate: func(f *GetStartedForm) { f.Mobile = "12345" }, wantFields: []string{"mobile"}},
		{name: "letters in phone", mutate: func(f *GetStartedForm) { f.Mobile = "98765abc210" }, wantFields: []string{"mobile"}},
		{name: "phone with parens", mutate: func(f *GetStartedForm) { f.Mobile = "(0135) 2654321" }},
		{
			name:       "everything empty",
			mutate:     func(f *GetStartedForm) { *f = GetStartedForm{} },
			wantFields: []string{"name", "mobile", "email", "requirements", "planId"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			f.Normalize()

			err := f.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			errs, ok := FieldErrors(err)
			if !ok {
				t.Fatalf("expected field errors, got %v", err)
			}
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got errors %v, want fields %v", errs, tt.wantFields)
			}
			for _, field := range tt.wantFields {
				if _, ok := errs[field]; !ok {
					t.Fatalf("missing error for %q in %v", field, errs)
				}
			}
		})
	}
}

func TestContactForm_Validate(t *testing.T) {
	f := ContactForm{Name: " Asha ", Email: "asha@example.com", Message: "hello"}
	f.Normalize()
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "Asha" {
		t.Fatalf("name not trimmed: %q", f.Name)
	}

	f.Email = "not-an-email"
	errs, ok := FieldErrors(f.Validate())
	if !ok {
		t.Fatalf("expected field errors")
	}
	if _, ok := errs["email"]; !ok {
		t.Fatalf("expected email error, got %v", errs)
	}
}
