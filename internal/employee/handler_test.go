package employee

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerCreateAndList(t *testing.T) {
	store, _ := newTestStore(t)
	h := NewHandler(store)
	e := echo.New()

	body := `{"name":"Anna Schmidt","costCenter":"210","imageUrl":"photo","birthDate":"1980-03-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "normalized:photo", created.ImageURL)

	req = httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.List(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var listed []Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestHandlerCreateRejectsBadCostCenter(t *testing.T) {
	store, _ := newTestStore(t)
	h := NewHandler(store)
	e := echo.New()

	for _, code := range []string{"12", "12a"} {
		body := `{"name":"Anna","costCenter":"` + code + `","imageUrl":"photo"}`
		req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Create(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "cost center %q", code)
	}
	assert.Empty(t, store.Load())
}

func TestHandlerListSorted(t *testing.T) {
	store, _ := newTestStore(t)
	for _, name := range []string{"Clara", "Anna", "Bernd"} {
		draft := validDraft()
		draft.Name = name
		_, err := store.Add(draft)
		require.NoError(t, err)
	}
	h := NewHandler(store)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/employees?sort=name&order=desc", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.List(e.NewContext(req, rec)))

	var listed []Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 3)
	assert.Equal(t, "Clara", listed[0].Name)
	assert.Equal(t, "Anna", listed[2].Name)
}
