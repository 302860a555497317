package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindingContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindNestedOrFlat(t *testing.T) {
	type payload struct {
		Nama string `json:"nama"`
		Blok string `json:"blok"`
	}

	t.Run("nested body", func(t *testing.T) {
		c := bindingContext(`{"warga": {"nama": "Budi", "blok": "A"}}`)

		var got payload
		require.NoError(t, BindNestedOrFlat(c, "warga", &got))
		assert.Equal(t, "Budi", got.Nama)
		assert.Equal(t, "A", got.Blok)
	})

	t.Run("flat body", func(t *testing.T) {
		c := bindingContext(`{"nama": "Sari", "blok": "B"}`)

		var got payload
		require.NoError(t, BindNestedOrFlat(c, "warga", &got))
		assert.Equal(t, "Sari", got.Nama)
	})

	t.Run("other keys do not trigger nesting", func(t *testing.T) {
		c := bindingContext(`{"iuran": {"nama": "Kebersihan"}, "nama": "Joko"}`)

		var got payload
		require.NoError(t, BindNestedOrFlat(c, "warga", &got))
		assert.Equal(t, "Joko", got.Nama)
	})

	t.Run("invalid json", func(t *testing.T) {
		c := bindingContext(`{"warga": `)

		var got payload
		assert.Error(t, BindNestedOrFlat(c, "warga", &got))
	})
}
