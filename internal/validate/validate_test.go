package validate_test

import (
	"testing"

	"qrcatalog/internal/validate"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	cases := map[string]struct {
		want int64
		ok   bool
	}{
		"1":                   {1, true},
		" 42 ":                {42, true},
		"0":                   {0, false},
		"-3":                  {0, false},
		"12abc":               {0, false},
		"":                    {0, false},
		"1234567890123456789": {0, false},
	}
	for in, tc := range cases {
		got, ok := validate.ID(in)
		assert.Equal(t, tc.ok, ok, in)
		assert.Equal(t, tc.want, got, in)
	}
}

type signup struct {
	Username string `validate:"required,username"`
	Password string `validate:"required,min=8"`
}

func TestStruct(t *testing.T) {
	assert.Nil(t, validate.Struct(signup{Username: "admin.one", Password: "longenough"}))

	errs := validate.Struct(signup{Username: "a b", Password: "short"})
	assert.Equal(t, map[string]string{"Username": "username", "Password": "min"}, errs)

	errs = validate.Struct(signup{})
	assert.Equal(t, "required", errs["Username"])
}

func TestOptional(t *testing.T) {
	assert.Nil(t, validate.Optional("   "))
	got := validate.Optional("  Ada ")
	if assert.NotNil(t, got) {
		assert.Equal(t, "Ada", *got)
	}
}
