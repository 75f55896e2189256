package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	FullName string `json:"full_name" binding:"omitempty,name"`
	Email    string `json:"email" binding:"omitempty,mail"`
	Age      int    `json:"age" binding:"omitempty,min=18"`
	Code     string `json:"code" binding:"required"`
}

func TestToDetails_UsesJSONNames(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&sample{
		FullName: strings.Repeat("a", 201),
		Email:    "not-an-email",
		Age:      3,
	})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be at most 200 characters long", details["full_name"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 18", details["age"])
	assert.Equal(t, "is required", details["code"])
}

func TestToDetails_InvalidJSON(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte(`{"email":`), &v)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}

func TestMessage_SortedByField(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&sample{Email: "x", Code: "c"})
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email", Message(err))
	assert.Empty(t, Message(nil))
}

func TestMail_TrimsBeforeChecking(t *testing.T) {
	Init()

	require.NoError(t, binding.Validator.ValidateStruct(&sample{Email: "  ada@x.com ", Code: "c"}))
	require.NoError(t, binding.Validator.ValidateStruct(&sample{Email: "   ", Code: "c"}), "blank is left to the presence check")
	assert.Error(t, binding.Validator.ValidateStruct(&sample{Email: " not an email ", Code: "c"}))
}

func TestToDetails_UndeclaredField(t *testing.T) {
	Init()
	assert.True(t, binding.EnableDecoderDisallowUnknownFields)

	var s sample
	dec := json.NewDecoder(strings.NewReader(`{"code":"c","is_admin":true}`))
	dec.DisallowUnknownFields()
	err := dec.Decode(&s)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"is_admin": "is not allowed"}, ToDetails(err))
	assert.Equal(t, "is_admin is not allowed", Message(err))
}
