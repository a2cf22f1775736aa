package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/savannah/pkg/validate"
)

type customerInput struct {
	Name  string `json:"name"         validate:"required,min=1,max=100"`
	Phone string `json:"phone_number" validate:"required,phone"`
}

func TestValidCustomerInput(t *testing.T) {
	errs := validate.Struct(customerInput{Name: "John Doe", Phone: "+254712345678"})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(customerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["phone_number"]; !ok {
		t.Error("expected phone_number to be required")
	}
}

func TestPhoneRule(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"+254712345678", true},
		{"0712345678", true},
		{"123456789012345", true},
		{"123456789", false},        // too short
		{"1234567890123456", false}, // too long
		{"+2547-123-456", false},    // punctuation
		{"hello world", false},
	}
	for _, tc := range cases {
		errs := validate.Struct(customerInput{Name: "x", Phone: tc.phone})
		_, failed := errs["phone_number"]
		if tc.ok && failed {
			t.Errorf("phone %q should pass, got %v", tc.phone, errs)
		}
		if !tc.ok && !failed {
			t.Errorf("phone %q should fail", tc.phone)
		}
	}
}

func TestMaxLength(t *testing.T) {
	long := make([]rune, 101)
	for i := range long {
		long[i] = 'a'
	}
	errs := validate.Struct(customerInput{Name: string(long), Phone: "0712345678"})
	if _, ok := errs["name"]; !ok {
		t.Error("expected 101-char name to fail max=100")
	}
}

func TestNumericRules(t *testing.T) {
	type in struct {
		Amount   float64 `json:"amount"   validate:"required,gt=0"`
		Quantity int     `json:"quantity" validate:"nullable,integer,gte=1"`
	}

	if errs := validate.Struct(in{Amount: 10.5, Quantity: 3}); validate.HasErrors(errs) {
		t.Errorf("expected valid input to pass, got %v", errs)
	}
	if errs := validate.Struct(in{Amount: 0, Quantity: 1}); !validate.HasErrors(errs) {
		t.Error("expected amount=0 to fail gt=0")
	}
	if errs := validate.Struct(in{Amount: -3, Quantity: 1}); !validate.HasErrors(errs) {
		t.Error("expected negative amount to fail")
	}
	// nullable quantity: zero skips the remaining rules
	if errs := validate.Struct(in{Amount: 1, Quantity: 0}); validate.HasErrors(errs) {
		t.Errorf("expected zero quantity to be skipped via nullable, got %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=Pending|Active|Cancelled|Delivered"`
	}
	if errs := validate.Struct(in{Status: "Delivered"}); validate.HasErrors(errs) {
		t.Errorf("expected Delivered to pass, got %v", errs)
	}
	if errs := validate.Struct(in{Status: "Shipped"}); !validate.HasErrors(errs) {
		t.Error("expected unknown status to fail")
	}
}

func TestPointerFields(t *testing.T) {
	type in struct {
		Name  *string `json:"name"         validate:"nullable,min=1,max=100"`
		Phone *string `json:"phone_number" validate:"nullable,phone"`
	}

	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("nil pointers should be skipped, got %v", errs)
	}

	bad := "12"
	if errs := validate.Struct(in{Phone: &bad}); !validate.HasErrors(errs) {
		t.Error("expected set-but-invalid pointer phone to fail")
	}

	empty := ""
	if errs := validate.Struct(in{Name: &empty}); !validate.HasErrors(errs) {
		t.Error("expected explicitly empty pointer name to fail min=1")
	}
	if errs := validate.Struct(in{Phone: &empty}); !validate.HasErrors(errs) {
		t.Error("expected explicitly empty pointer phone to fail")
	}

	good := "0712345678"
	if errs := validate.Struct(in{Phone: &good}); validate.HasErrors(errs) {
		t.Errorf("expected valid pointer phone to pass, got %v", errs)
	}
}
