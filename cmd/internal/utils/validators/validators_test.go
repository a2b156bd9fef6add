package validators

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Password string   `json:"password" validate:"required,hasupper,haslower,hasdigit,hasspecial,nospaces"`
	Date     string   `json:"date" validate:"required,isodate"`
	Time     string   `json:"time" validate:"required,clock"`
	Status   string   `json:"status" validate:"omitempty,apptstatus"`
	Rx       string   `json:"rx" validate:"omitempty,rxstatus"`
	Tags     []string `json:"tags" validate:"nodupes"`
}

func valid() sample {
	return sample{
		Password: "Secr3t!pass",
		Date:     "2026-10-20",
		Time:     "09:30",
		Status:   "no-show",
		Rx:       "active",
		Tags:     []string{"a", "b"},
	}
}

func failedFields(t *testing.T, err error) []string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	names := make([]string, len(verrs))
	for i, fe := range verrs {
		names[i] = fe.Field()
	}
	return names
}

func TestNew_AcceptsValid(t *testing.T) {
	s := valid()
	assert.NoError(t, New().Struct(&s))
}

func TestNew_ReportsJSONNames(t *testing.T) {
	cases := map[string]func(*sample){
		"password": func(s *sample) { s.Password = "alllowercase1!" },
		"date":     func(s *sample) { s.Date = "20/10/2026" },
		"time":     func(s *sample) { s.Time = "9:30" },
		"status":   func(s *sample) { s.Status = "pending" },
		"rx":       func(s *sample) { s.Rx = "paused" },
		"tags":     func(s *sample) { s.Tags = []string{"x", "x"} },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			s := valid()
			mutate(&s)
			assert.Equal(t, []string{field}, failedFields(t, New().Struct(&s)))
		})
	}
}

func TestPasswordRules(t *testing.T) {
	v := New()
	assert.Error(t, v.Var("NOLOWER1!", "haslower"))
	assert.Error(t, v.Var("noupper1!", "hasupper"))
	assert.Error(t, v.Var("NoDigit!", "hasdigit"))
	assert.Error(t, v.Var("NoSpecial1", "hasspecial"))
	assert.Error(t, v.Var("has space", "nospaces"))
}
