package validation

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRunStopsAtFirstFailurePerField(t *testing.T) {
	queried := false
	exists := func(context.Context) (bool, error) {
		queried = true
		return true, nil
	}

	errs, err := Run(context.Background(),
		Field{Name: "email", Rules: []Rule{
			NotBlank("", "blank email"),
			Unique("taken email", exists),
		}},
		Field{Name: "password", Rules: []Rule{
			NotBlank("12", "blank password"),
			MinLength("12", 6, "short password"),
		}},
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if queried {
		t.Fatal("unique check should not run after a failed rule")
	}

	want := Errors{
		"email":    {{Kind: KindBlank, Message: "blank email"}},
		"password": {{Kind: KindTooShort, Message: "short password"}},
	}
	if !reflect.DeepEqual(errs, want) {
		t.Fatalf("got %+v, want %+v", errs, want)
	}
	if errs.Empty() {
		t.Fatal("errors should not be empty")
	}
}

func TestRunPasses(t *testing.T) {
	errs, err := Run(context.Background(),
		Field{Name: "category", Rules: []Rule{
			NotBlank("income", "blank"),
			OneOf("income", []string{"outgoings", "income"}, "inclusion"),
		}},
		Field{Name: "notes", Rules: []Rule{
			MaxLength("山竹", 2, "too long"),
		}},
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !errs.Empty() {
		t.Fatalf("want no errors, got %+v", errs)
	}
}

func TestUniqueReportsTakenAndErrors(t *testing.T) {
	errs, err := Run(context.Background(), Field{Name: "email", Rules: []Rule{
		Unique("taken", func(context.Context) (bool, error) { return true, nil }),
	}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := errs["email"]; len(got) != 1 || got[0].Kind != KindTaken {
		t.Fatalf("want one taken failure, got %+v", got)
	}

	boom := errors.New("db down")
	if _, err := Run(context.Background(), Field{Name: "email", Rules: []Rule{
		Unique("taken", func(context.Context) (bool, error) { return false, boom }),
	}}); !errors.Is(err, boom) {
		t.Fatalf("want wrapped db error, got %v", err)
	}
}

func TestMessages(t *testing.T) {
	errs := Errors{}
	errs.Add("email", KindInvalid, "邮箱或密码错误")

	if got := errs.Messages(); !reflect.DeepEqual(got, map[string][]string{"email": {"邮箱或密码错误"}}) {
		t.Fatalf("unexpected messages: %+v", got)
	}
}

func TestOptionalSkipsEmptyValue(t *testing.T) {
	options := []string{"outgoings", "income"}

	errs, err := Run(context.Background(),
		Field{Name: "empty", Rules: []Rule{Optional("", OneOf("", options, "inclusion"))}},
		Field{Name: "wrong", Rules: []Rule{Optional("gift", OneOf("gift", options, "inclusion"))}},
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := errs["empty"]; ok {
		t.Fatalf("empty value should be skipped, got %+v", errs["empty"])
	}
	if got := errs["wrong"]; len(got) != 1 || got[0].Kind != KindInclusion {
		t.Fatalf("want inclusion failure, got %+v", got)
	}
}
